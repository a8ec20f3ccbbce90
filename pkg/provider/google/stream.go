package google

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/sse"
)

// decodeStream reads streamGenerateContent SSE events and forwards them
// chunk by chunk. Each event is a generateResponse fragment; a candidate
// finishReason marks the end, with usage taken from the last event that
// carried usageMetadata.
func decodeStream(cfg *llm.Config, reader *sse.Reader, out chan<- llm.StreamChunk) {
	defer close(out)
	defer reader.Close()

	var content, reasoning strings.Builder
	var toolCalls []llm.ToolCall
	var usage llm.Usage
	haveUsage := false
	model := cfg.Model

	for {
		payload, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out <- llm.StreamChunk{Err: llm.NewTransportError(llm.ServiceGoogle, err)}
			return
		}

		var event generateResponse
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			slog.Warn("skipping malformed stream event",
				"service", string(llm.ServiceGoogle),
				"error", err.Error(),
			)
			continue
		}

		if event.ModelVersion != "" {
			model = event.ModelVersion
		}
		if event.UsageMetadata != nil {
			usage = decodeUsage(event.UsageMetadata)
			haveUsage = true
		}

		finished := false
		for i := range event.Candidates {
			cand := &event.Candidates[i]
			for _, part := range cand.Content.Parts {
				switch {
				case part.FunctionCall != nil:
					args := part.FunctionCall.Args
					if args == nil {
						args = map[string]any{}
					}
					call := llm.ToolCall{
						ID:    synthesizeCallID(part.FunctionCall.Name),
						Name:  part.FunctionCall.Name,
						Input: args,
					}
					toolCalls = append(toolCalls, call)
					out <- llm.StreamChunk{Type: llm.ChunkToolCall, ToolCall: &call}
				case part.Thinking != "":
					reasoning.WriteString(part.Thinking)
					out <- llm.StreamChunk{Type: llm.ChunkReasoning, Delta: part.Thinking}
				case part.Text != "":
					content.WriteString(part.Text)
					out <- llm.StreamChunk{Type: llm.ChunkContent, Delta: part.Text}
				}
			}
			for _, ts := range cand.ThoughtSummaries {
				reasoning.WriteString(ts.Content)
				out <- llm.StreamChunk{Type: llm.ChunkReasoning, Delta: ts.Content}
			}
			if cand.FinishReason != "" {
				finished = true
			}
		}
		if finished {
			break
		}
	}

	if haveUsage {
		u := usage
		out <- llm.StreamChunk{Type: llm.ChunkUsage, Usage: &u}
	}

	text := content.String()
	thinking := reasoning.String()
	out <- llm.StreamChunk{
		Type: llm.ChunkComplete,
		Response: &llm.Response{
			Service:      llm.ServiceGoogle,
			Model:        model,
			Content:      text,
			Reasoning:    thinking,
			ToolCalls:    toolCalls,
			Capabilities: llm.DeriveCapabilities(text, thinking, toolCalls),
			Usage:        usage,
			Messages:     llm.WithAppendedAssistant(cfg.Messages, text, thinking, toolCalls),
		},
	}
}
