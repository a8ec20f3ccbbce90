// Package groq adapts the unified model to the Groq API, which serves
// Chat Completions at an OpenAI-compatible endpoint.
package groq

import (
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider/openaicompat"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// New creates the Groq adapter.
func New() *openaicompat.Client {
	return openaicompat.New(openaicompat.Options{
		Service:        llm.ServiceGroq,
		DefaultBaseURL: DefaultBaseURL,
		Tune:           tune,
	})
}

// tune applies reasoning parameters for the Qwen and DeepSeek models Groq
// hosts. The "default" effort keeps the model's own reasoning behavior
// but wants a 0.6 temperature unless the caller chose one.
func tune(model string, cfg *llm.Config, req *openaicompat.ChatRequest) {
	if !isReasoningModel(model) {
		return
	}
	if cfg.ReasoningFormat != "" {
		req.ReasoningFormat = string(cfg.ReasoningFormat)
	}
	switch cfg.ReasoningEffort {
	case "":
	case llm.ReasoningEffortDefault:
		req.ReasoningEffort = string(llm.ReasoningEffortDefault)
		if req.Temperature == nil {
			t := 0.6
			req.Temperature = &t
		}
	default:
		req.ReasoningEffort = string(cfg.ReasoningEffort)
	}
}

func isReasoningModel(model string) bool {
	lower := strings.ToLower(model)
	return strings.Contains(lower, "qwen") || strings.Contains(lower, "deepseek")
}
