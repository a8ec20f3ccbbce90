package openaicompat

import (
	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider"
)

// EncodeRequest lowers a unified config to a ChatRequest. The tune hook,
// when non-nil, applies vendor-specific parameters afterwards.
func EncodeRequest(cfg *llm.Config, stream bool, tune func(model string, cfg *llm.Config, req *ChatRequest)) *ChatRequest {
	req := &ChatRequest{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      stream,
	}

	if cfg.SystemPrompt != "" {
		req.Messages = append(req.Messages, ChatMessage{
			Role:    "system",
			Content: cfg.SystemPrompt,
		})
	}
	for i := range cfg.Messages {
		req.Messages = append(req.Messages, encodeMessage(cfg.Messages, i))
	}

	for _, t := range provider.SanitizeTools(cfg.Tools) {
		req.Tools = append(req.Tools, ChatTool{
			Type: "function",
			Function: ChatFunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	if tune != nil {
		tune(cfg.Model, cfg, req)
	}
	return req
}

// encodeMessage lowers the message at position i. The full slice is
// needed for tool_result messages whose id must be resolved from the
// preceding assistant turn.
func encodeMessage(messages []llm.Message, i int) ChatMessage {
	msg := messages[i]

	switch msg.Role {
	case llm.RoleToolResult:
		callID := msg.ToolCallID
		if callID == "" {
			callID = resolvePendingCallID(messages, i)
		}
		return ChatMessage{
			Role:       "tool",
			ToolCallID: callID,
			Content:    provider.FlattenParts(&msg),
		}

	case llm.RoleAssistant, llm.RoleToolCall:
		cm := ChatMessage{Role: "assistant"}
		if len(msg.ToolCalls) > 0 {
			// Null content is legal (and expected) when the turn only
			// issued tool calls.
			if text := provider.FlattenParts(&msg); text != "" {
				cm.Content = text
			}
			for _, tc := range msg.ToolCalls {
				cm.ToolCalls = append(cm.ToolCalls, ChatToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: ChatFunctionCall{
						Name:      tc.Name,
						Arguments: provider.MarshalArguments(tc.Input),
					},
				})
			}
			return cm
		}
		cm.Content = encodeContent(&msg)
		return cm

	default:
		return ChatMessage{
			Role:    string(msg.Role),
			Content: encodeContent(&msg),
		}
	}
}

// encodeContent returns plain text for simple messages and a part list
// for structured content. Non-image media parts are textualized.
func encodeContent(msg *llm.Message) any {
	if len(msg.Parts) == 0 {
		return msg.Content
	}
	parts := make([]ChatContentPart, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		switch p.Type {
		case llm.PartImage:
			parts = append(parts, ChatContentPart{
				Type:     "image_url",
				ImageURL: &ChatImageURL{URL: p.URL},
			})
		case llm.PartText:
			parts = append(parts, ChatContentPart{Type: "text", Text: p.Text})
		default:
			parts = append(parts, ChatContentPart{Type: "text", Text: p.URL})
		}
	}
	return parts
}

// resolvePendingCallID binds an id-less tool_result to the single
// unresolved call of the nearest preceding assistant turn, mirroring the
// flow validator's acceptance rule.
func resolvePendingCallID(messages []llm.Message, i int) string {
	pending := map[string]bool{}
	for j := 0; j < i; j++ {
		msg := messages[j]
		switch {
		case (msg.Role == llm.RoleAssistant || msg.Role == llm.RoleToolCall) && len(msg.ToolCalls) > 0:
			pending = map[string]bool{}
			for _, tc := range msg.ToolCalls {
				pending[tc.ID] = true
			}
		case msg.Role == llm.RoleToolResult && msg.ToolCallID != "":
			delete(pending, msg.ToolCallID)
		}
	}
	if len(pending) == 1 {
		for id := range pending {
			return id
		}
	}
	return ""
}
