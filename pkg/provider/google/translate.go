package google

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider"
)

// callCounter disambiguates ids synthesized within the same second.
var callCounter atomic.Int64

// synthesizeCallID builds a deterministic-format id for a functionCall.
// Gemini issues no call ids, so the adapter mints google_{name}_{ts}_{n};
// downstream tool_result linkage then works by either id or name.
func synthesizeCallID(name string) string {
	return fmt.Sprintf("google_%s_%d_%d", name, time.Now().Unix(), callCounter.Add(1))
}

// nameFromCallID recovers the function name from a synthesized id by
// stripping the google_ prefix and the trailing numeric segments.
func nameFromCallID(id string) string {
	rest, ok := strings.CutPrefix(id, "google_")
	if !ok {
		return ""
	}
	parts := strings.Split(rest, "_")
	for len(parts) > 1 && isDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "_")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// encodeRequest lowers a unified config to a generateRequest. System
// messages lift into systemInstruction; every other message becomes a
// user or model content entry.
func encodeRequest(cfg *llm.Config) *generateRequest {
	req := &generateRequest{}

	var system []string
	if cfg.SystemPrompt != "" {
		system = append(system, cfg.SystemPrompt)
	}

	for i := range cfg.Messages {
		msg := &cfg.Messages[i]
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, provider.FlattenParts(msg))
		case llm.RoleToolResult:
			req.Contents = append(req.Contents, encodeToolResult(cfg.Messages, i))
		case llm.RoleAssistant, llm.RoleToolCall:
			req.Contents = append(req.Contents, encodeModelTurn(msg))
		default:
			req.Contents = append(req.Contents, gContent{
				Role:  "user",
				Parts: encodeParts(msg),
			})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &gContent{
			Parts: []gPart{{Text: strings.Join(system, "\n")}},
		}
	}

	if tools := provider.SanitizeTools(cfg.Tools); len(tools) > 0 {
		decls := make([]gFunctionDecl, 0, len(tools))
		for _, t := range tools {
			decls = append(decls, gFunctionDecl{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  sanitizeSchema(t.Parameters),
			})
		}
		req.Tools = []gTool{{FunctionDeclarations: decls}}
	}

	if cfg.Temperature != nil || cfg.MaxTokens != nil || wantsThinking(cfg) {
		gc := &generationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxTokens,
		}
		if wantsThinking(cfg) {
			gc.ThinkingBudget = cfg.ThinkingBudget
			gc.IncludeThoughts = cfg.IncludeThoughts
		}
		req.GenerationConfig = gc
	}
	return req
}

// wantsThinking gates the thinking knobs to the model generation that
// accepts them.
func wantsThinking(cfg *llm.Config) bool {
	if cfg.ThinkingBudget == nil && !cfg.IncludeThoughts {
		return false
	}
	return strings.Contains(cfg.Model, "gemini-2.5")
}

// encodeToolResult lowers a tool_result into a functionResponse part.
// The function name comes from the message, from the assistant turn that
// issued a call with a matching id, or from a synthesized id's embedded
// name, in that order.
func encodeToolResult(messages []llm.Message, i int) gContent {
	msg := &messages[i]
	name := msg.Name
	if name == "" && msg.ToolCallID != "" {
		name = resolveNameByID(messages, i, msg.ToolCallID)
	}
	if name == "" {
		name = nameFromCallID(msg.ToolCallID)
	}
	return gContent{
		Role: "user",
		Parts: []gPart{{
			FunctionResponse: &gFunctionResponse{
				Name:     name,
				Response: encodeFunctionResponse(provider.FlattenParts(msg)),
			},
		}},
	}
}

// encodeFunctionResponse wraps plain-text results as {"result": text};
// content that already is a JSON object passes through structurally.
func encodeFunctionResponse(content string) map[string]any {
	var structured map[string]any
	if err := json.Unmarshal([]byte(content), &structured); err == nil && structured != nil {
		return structured
	}
	return map[string]any{"result": content}
}

// resolveNameByID scans back for the assistant tool call matching id.
func resolveNameByID(messages []llm.Message, before int, id string) string {
	for j := before - 1; j >= 0; j-- {
		for _, tc := range messages[j].ToolCalls {
			if tc.ID == id {
				return tc.Name
			}
		}
	}
	return ""
}

// encodeModelTurn lowers an assistant turn: text parts first, then one
// functionCall part per issued tool call.
func encodeModelTurn(msg *llm.Message) gContent {
	var parts []gPart
	if len(msg.ToolCalls) > 0 {
		if text := provider.FlattenParts(msg); text != "" {
			parts = append(parts, gPart{Text: text})
		}
		for _, tc := range msg.ToolCalls {
			args := tc.Input
			if args == nil {
				args = map[string]any{}
			}
			parts = append(parts, gPart{
				FunctionCall: &gFunctionCall{Name: tc.Name, Args: args},
			})
		}
	} else {
		parts = encodeParts(msg)
	}
	return gContent{Role: "model", Parts: parts}
}

// encodeParts lowers message content: text as text parts; images as
// inlineData when given a data URL, fileData otherwise; remaining media
// textualized best-effort.
func encodeParts(msg *llm.Message) []gPart {
	if len(msg.Parts) == 0 {
		return []gPart{{Text: msg.Content}}
	}
	parts := make([]gPart, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		switch p.Type {
		case llm.PartImage:
			parts = append(parts, encodeImagePart(p))
		case llm.PartText:
			parts = append(parts, gPart{Text: p.Text})
		default:
			parts = append(parts, gPart{Text: p.URL})
		}
	}
	return parts
}

func encodeImagePart(p llm.ContentPart) gPart {
	if mimeType, data, ok := splitDataURL(p.URL); ok {
		return gPart{InlineData: &gInlineData{MimeType: mimeType, Data: data}}
	}
	return gPart{FileData: &gFileData{FileURI: p.URL}}
}

// splitDataURL parses "data:{mediatype};base64,{payload}" URLs.
func splitDataURL(url string) (mimeType, data string, ok bool) {
	rest, found := strings.CutPrefix(url, "data:")
	if !found {
		return "", "", false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	return strings.TrimSuffix(meta, ";base64"), payload, true
}

// sanitizeSchema strips JSON Schema keywords Gemini rejects
// (additionalProperties, $schema), recursing through nested schemas.
func sanitizeSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		if k == "additionalProperties" || k == "$schema" {
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return sanitizeSchema(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}
