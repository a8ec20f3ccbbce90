package anthropic

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/sse"
)

// decodeStream reads Messages API stream events and emits unified chunks.
// Anthropic delivers a complete tool_use input in content_block_start, so
// no argument accumulation is needed; message_delta carries usage and
// message_stop finalizes.
func decodeStream(cfg *llm.Config, reader *sse.Reader, out chan<- llm.StreamChunk) {
	defer close(out)
	defer reader.Close()

	var content, reasoning strings.Builder
	var toolCalls []llm.ToolCall
	var usage llm.Usage
	model := cfg.Model

	emitComplete := func() {
		text := content.String()
		thinking := reasoning.String()
		out <- llm.StreamChunk{
			Type: llm.ChunkComplete,
			Response: &llm.Response{
				Service:      llm.ServiceAnthropic,
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

	for {
		payload, err := reader.Next()
		if err == io.EOF {
			// message_stop normally ends the stream first; a truncated
			// stream still yields a terminal chunk.
			emitComplete()
			return
		}
		if err != nil {
			out <- llm.StreamChunk{Err: llm.NewTransportError(llm.ServiceAnthropic, err)}
			return
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			slog.Warn("skipping malformed stream event",
				"service", string(llm.ServiceAnthropic),
				"error", err.Error(),
			)
			continue
		}

		switch event.Type {
		case "message_start":
			if event.Message != nil {
				if event.Message.Model != "" {
					model = event.Message.Model
				}
				usage.InputTokens = event.Message.Usage.InputTokens
				usage.TotalTokens = usage.InputTokens + usage.OutputTokens
			}

		case "content_block_start":
			if event.ContentBlock != nil && event.ContentBlock.Type == "tool_use" {
				call := llm.ToolCall{
					ID:    event.ContentBlock.ID,
					Name:  event.ContentBlock.Name,
					Input: event.ContentBlock.Input,
				}
				toolCalls = append(toolCalls, call)
				out <- llm.StreamChunk{Type: llm.ChunkToolCall, ToolCall: &call}
			}

		case "content_block_delta":
			if event.Delta == nil {
				continue
			}
			switch event.Delta.Type {
			case "text_delta":
				content.WriteString(event.Delta.Text)
				out <- llm.StreamChunk{Type: llm.ChunkContent, Delta: event.Delta.Text}
			case "thinking_delta":
				reasoning.WriteString(event.Delta.Thinking)
				out <- llm.StreamChunk{Type: llm.ChunkReasoning, Delta: event.Delta.Thinking}
			}

		case "message_delta":
			if event.Usage != nil {
				if event.Usage.InputTokens > 0 {
					usage.InputTokens = event.Usage.InputTokens
				}
				usage.OutputTokens = event.Usage.OutputTokens
				usage.TotalTokens = usage.InputTokens + usage.OutputTokens
				u := usage
				out <- llm.StreamChunk{Type: llm.ChunkUsage, Usage: &u}
			}

		case "message_stop":
			emitComplete()
			return
		}
	}
}
