package groq

import (
	"testing"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider/openaicompat"
)

func TestTune(t *testing.T) {
	t.Run("default effort sets temperature", func(t *testing.T) {
		cfg := &llm.Config{
			Model:           "qwen-qwq-32b",
			ReasoningEffort: llm.ReasoningEffortDefault,
		}
		req := &openaicompat.ChatRequest{}
		tune(cfg.Model, cfg, req)

		if req.ReasoningEffort != "default" {
			t.Errorf("reasoning_effort = %q", req.ReasoningEffort)
		}
		if req.Temperature == nil || *req.Temperature != 0.6 {
			t.Error("temperature not defaulted to 0.6")
		}
	})

	t.Run("caller temperature wins", func(t *testing.T) {
		temp := 0.1
		cfg := &llm.Config{
			Model:           "deepseek-r1-distill-llama-70b",
			ReasoningEffort: llm.ReasoningEffortDefault,
		}
		req := &openaicompat.ChatRequest{Temperature: &temp}
		tune(cfg.Model, cfg, req)

		if *req.Temperature != 0.1 {
			t.Errorf("temperature = %v, want the caller's choice kept", *req.Temperature)
		}
	})

	t.Run("reasoning format forwarded", func(t *testing.T) {
		cfg := &llm.Config{
			Model:           "qwen-qwq-32b",
			ReasoningFormat: llm.ReasoningFormatParsed,
		}
		req := &openaicompat.ChatRequest{}
		tune(cfg.Model, cfg, req)

		if req.ReasoningFormat != string(llm.ReasoningFormatParsed) {
			t.Errorf("reasoning_format = %q", req.ReasoningFormat)
		}
	})

	t.Run("non-reasoning model untouched", func(t *testing.T) {
		cfg := &llm.Config{
			Model:           "llama-3.3-70b-versatile",
			ReasoningEffort: llm.ReasoningEffortDefault,
		}
		req := &openaicompat.ChatRequest{}
		tune(cfg.Model, cfg, req)

		if req.ReasoningEffort != "" || req.Temperature != nil {
			t.Errorf("request modified: %+v", req)
		}
	})
}
