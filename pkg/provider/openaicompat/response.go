package openaicompat

import (
	"encoding/json"
	"log/slog"

	"github.com/unillm/unillm/pkg/llm"
)

// DecodeResponse turns a unary ChatResponse into the unified Response,
// appending the assistant turn to the config's messages.
func DecodeResponse(cfg *llm.Config, service llm.Service, chatResp *ChatResponse) *llm.Response {
	model := chatResp.Model
	if model == "" {
		model = cfg.Model
	}

	var content, reasoning string
	var toolCalls []llm.ToolCall

	if len(chatResp.Choices) > 0 {
		msg := chatResp.Choices[0].Message
		if msg.Content != nil {
			content = *msg.Content
		}
		switch {
		case msg.ReasoningContent != nil:
			reasoning = *msg.ReasoningContent
		case msg.Reasoning != nil:
			reasoning = *msg.Reasoning
		}
		toolCalls = decodeToolCalls(msg.ToolCalls)
	}

	return &llm.Response{
		Service:      service,
		Model:        model,
		Content:      content,
		Reasoning:    reasoning,
		ToolCalls:    toolCalls,
		Capabilities: llm.DeriveCapabilities(content, reasoning, toolCalls),
		Usage:        DecodeUsage(chatResp.Usage),
		Messages:     llm.WithAppendedAssistant(cfg.Messages, content, reasoning, toolCalls),
	}
}

// decodeToolCalls parses each wire tool call's arguments as JSON. Calls
// whose arguments do not parse are dropped with a log entry.
func decodeToolCalls(wire []ChatToolCall) []llm.ToolCall {
	var calls []llm.ToolCall
	for _, tc := range wire {
		args := tc.Function.Arguments
		if args == "" {
			args = "{}"
		}
		var input map[string]any
		if err := json.Unmarshal([]byte(args), &input); err != nil {
			slog.Warn("dropping tool call with unparsable arguments",
				"id", tc.ID,
				"name", tc.Function.Name,
				"error", err.Error(),
			)
			continue
		}
		calls = append(calls, llm.ToolCall{
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: input,
		})
	}
	return calls
}

// DecodeUsage converts wire usage; a nil input yields zeroed counts.
func DecodeUsage(u *ChatUsage) llm.Usage {
	if u == nil {
		return llm.Usage{}
	}
	usage := llm.Usage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
	if u.CompletionTokensDetails != nil {
		usage.ReasoningTokens = u.CompletionTokensDetails.ReasoningTokens
	}
	return usage
}
