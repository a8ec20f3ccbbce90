package llm

import "testing"

func TestResponsePredicates(t *testing.T) {
	tests := []struct {
		name     string
		resp     *Response
		wantType ResponseType
		complex  bool
	}{
		{
			name:     "text only",
			resp:     &Response{Content: "hello"},
			wantType: ResponseTypeText,
		},
		{
			name:     "tool calls only",
			resp:     &Response{ToolCalls: []ToolCall{{ID: "c1"}}},
			wantType: ResponseTypeToolCalls,
		},
		{
			name:     "reasoning only",
			resp:     &Response{Reasoning: "hmm"},
			wantType: ResponseTypeReasoning,
		},
		{
			name:     "text and tool calls",
			resp:     &Response{Content: "calling", ToolCalls: []ToolCall{{ID: "c1"}}},
			wantType: ResponseTypeComplex,
			complex:  true,
		},
		{
			name:     "empty",
			resp:     &Response{Content: "   "},
			wantType: ResponseTypeEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetResponseType(tt.resp); got != tt.wantType {
				t.Errorf("GetResponseType() = %s, want %s", got, tt.wantType)
			}
			if got := IsComplexResponse(tt.resp); got != tt.complex {
				t.Errorf("IsComplexResponse() = %v, want %v", got, tt.complex)
			}
		})
	}
}

func TestServicePredicates(t *testing.T) {
	tests := []struct {
		service    Service
		compatible bool
		needsKey   bool
		bearer     bool
	}{
		{ServiceOpenAI, true, true, true},
		{ServiceGroq, true, true, true},
		{ServiceDeepSeek, true, true, true},
		{ServiceXAI, true, true, true},
		{ServiceAnthropic, false, true, false},
		{ServiceGoogle, false, true, false},
		{ServiceOllama, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.service), func(t *testing.T) {
			if got := IsOpenAICompatible(tt.service); got != tt.compatible {
				t.Errorf("IsOpenAICompatible() = %v, want %v", got, tt.compatible)
			}
			if got := RequiresAPIKey(tt.service); got != tt.needsKey {
				t.Errorf("RequiresAPIKey() = %v, want %v", got, tt.needsKey)
			}
			if got := SupportsBearerAuth(tt.service); got != tt.bearer {
				t.Errorf("SupportsBearerAuth() = %v, want %v", got, tt.bearer)
			}
		})
	}
}
