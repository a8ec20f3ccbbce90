package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "provider error names service and status",
			err:  NewProviderError(ServiceAnthropic, 429, "rate limited"),
			want: []string{"anthropic", "429", "rate limited"},
		},
		{
			name: "flow error cites position",
			err:  NewFlowError(2, "tool_result without a preceding assistant tool call"),
			want: []string{"message 2"},
		},
		{
			name: "config error names param",
			err:  NewConfigError("model", "model is required"),
			want: []string{"param: model"},
		},
		{
			name: "unsupported service names discriminant",
			err:  NewUnsupportedServiceError("aurora"),
			want: []string{"aurora"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewTransportError(ServiceOllama, cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
}
