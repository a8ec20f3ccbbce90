package xai

import (
	"testing"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider/openaicompat"
)

func TestTune(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		effort llm.ReasoningEffort
		want   string
	}{
		{
			name:   "grok-3 carries effort",
			model:  "grok-3-mini",
			effort: llm.ReasoningEffortLow,
			want:   "low",
		},
		{
			name:   "grok-4 drops effort",
			model:  "grok-4",
			effort: llm.ReasoningEffortLow,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &llm.Config{Model: tt.model, ReasoningEffort: tt.effort}
			req := &openaicompat.ChatRequest{}
			tune(tt.model, cfg, req)
			if req.ReasoningEffort != tt.want {
				t.Errorf("reasoning_effort = %q, want %q", req.ReasoningEffort, tt.want)
			}
		})
	}
}
