// Package xai adapts the unified model to the xAI API.
package xai

import (
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider/openaicompat"
)

// DefaultBaseURL is the xAI API endpoint.
const DefaultBaseURL = "https://api.x.ai/v1"

// New creates the xAI adapter.
func New() *openaicompat.Client {
	return openaicompat.New(openaicompat.Options{
		Service:        llm.ServiceXAI,
		DefaultBaseURL: DefaultBaseURL,
		Tune:           tune,
	})
}

// tune adds reasoning_effort for Grok 3 models. Grok 4 reasons
// unconditionally and rejects the parameter.
func tune(model string, cfg *llm.Config, req *openaicompat.ChatRequest) {
	if !strings.Contains(strings.ToLower(model), "grok-3") {
		return
	}
	switch cfg.ReasoningEffort {
	case llm.ReasoningEffortLow, llm.ReasoningEffortMedium, llm.ReasoningEffortHigh:
		req.ReasoningEffort = string(cfg.ReasoningEffort)
	}
}
