package anthropic

import (
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider"
)

// defaultMaxTokens applies when the config does not set max_tokens; the
// Messages API requires the field.
const defaultMaxTokens = 4096

// encodeRequest lowers a unified config to a messagesRequest. System
// messages anywhere in the conversation are lifted into the top-level
// system field, newline-joined, after the config's system prompt.
func encodeRequest(cfg *llm.Config, stream bool) *messagesRequest {
	req := &messagesRequest{
		Model:       cfg.Model,
		MaxTokens:   defaultMaxTokens,
		Temperature: cfg.Temperature,
		Stream:      stream,
	}
	if cfg.MaxTokens != nil {
		req.MaxTokens = *cfg.MaxTokens
	}
	if cfg.ThinkingBudget != nil {
		req.Thinking = &anthThinking{
			Type:         "enabled",
			BudgetTokens: *cfg.ThinkingBudget,
		}
	}

	var system []string
	if cfg.SystemPrompt != "" {
		system = append(system, cfg.SystemPrompt)
	}

	for _, msg := range cfg.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, provider.FlattenParts(&msg))

		case llm.RoleToolResult:
			req.Messages = append(req.Messages, anthMessage{
				Role: "user",
				Content: []anthBlock{{
					Type:      "tool_result",
					ToolUseID: msg.ToolCallID,
					Content:   provider.FlattenParts(&msg),
				}},
			})

		case llm.RoleAssistant, llm.RoleToolCall:
			req.Messages = append(req.Messages, encodeAssistant(&msg))

		default:
			req.Messages = append(req.Messages, anthMessage{
				Role:    "user",
				Content: encodeContent(&msg),
			})
		}
	}
	req.System = strings.Join(system, "\n")

	for _, t := range provider.SanitizeTools(cfg.Tools) {
		req.Tools = append(req.Tools, anthTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}
	return req
}

// encodeAssistant lowers an assistant turn. Turns carrying tool calls
// become a block list of text parts followed by tool_use blocks.
func encodeAssistant(msg *llm.Message) anthMessage {
	if len(msg.ToolCalls) == 0 {
		return anthMessage{Role: "assistant", Content: encodeContent(msg)}
	}

	var blocks []anthBlock
	if text := provider.FlattenParts(msg); text != "" {
		blocks = append(blocks, anthBlock{Type: "text", Text: text})
	}
	for _, tc := range msg.ToolCalls {
		input := tc.Input
		if input == nil {
			input = map[string]any{}
		}
		blocks = append(blocks, anthBlock{
			Type:  "tool_use",
			ID:    tc.ID,
			Name:  tc.Name,
			Input: input,
		})
	}
	return anthMessage{Role: "assistant", Content: blocks}
}

// encodeContent returns a plain string for simple messages and a block
// list for structured content. Image data URLs become inline base64
// sources; remote URLs become url sources; other media is textualized.
func encodeContent(msg *llm.Message) any {
	if len(msg.Parts) == 0 {
		return msg.Content
	}
	blocks := make([]anthBlock, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		switch p.Type {
		case llm.PartImage:
			blocks = append(blocks, anthBlock{
				Type:   "image",
				Source: encodeImageSource(p),
			})
		case llm.PartText:
			blocks = append(blocks, anthBlock{Type: "text", Text: p.Text})
		default:
			blocks = append(blocks, anthBlock{Type: "text", Text: p.URL})
		}
	}
	return blocks
}

func encodeImageSource(p llm.ContentPart) *anthImageSource {
	if mediaType, data, ok := splitDataURL(p.URL); ok {
		return &anthImageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      data,
		}
	}
	return &anthImageSource{Type: "url", URL: p.URL}
}

// splitDataURL parses "data:{mediatype};base64,{payload}" URLs.
func splitDataURL(url string) (mediaType, data string, ok bool) {
	rest, found := strings.CutPrefix(url, "data:")
	if !found {
		return "", "", false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mediaType = strings.TrimSuffix(meta, ";base64")
	return mediaType, payload, true
}
