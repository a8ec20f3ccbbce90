// Package openai adapts the unified model to the OpenAI API.
package openai

import (
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider/openaicompat"
)

// DefaultBaseURL is the OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// New creates the OpenAI adapter.
func New() *openaicompat.Client {
	return openaicompat.New(openaicompat.Options{
		Service:            llm.ServiceOpenAI,
		DefaultBaseURL:     DefaultBaseURL,
		IncludeStreamUsage: true,
		Tune:               tune,
	})
}

// tune adds reasoning_effort for the o-series reasoning models; other
// models reject the parameter.
func tune(model string, cfg *llm.Config, req *openaicompat.ChatRequest) {
	if !isReasoningModel(model) {
		return
	}
	switch cfg.ReasoningEffort {
	case llm.ReasoningEffortLow, llm.ReasoningEffortMedium, llm.ReasoningEffortHigh:
		req.ReasoningEffort = string(cfg.ReasoningEffort)
	}
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3")
}
