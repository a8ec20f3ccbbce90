package provider

import (
	"encoding/json"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
)

// SanitizeTools normalizes tool declarations before lowering: blank names
// are dropped and nil parameter schemas are replaced with an empty object
// schema, which every vendor accepts for zero-argument functions.
func SanitizeTools(tools []llm.Tool) []llm.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]llm.Tool, 0, len(tools))
	for _, t := range tools {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		if t.Parameters == nil {
			t.Parameters = map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			}
		}
		out = append(out, t)
	}
	return out
}

// FlattenParts textualizes structured content for providers that only
// accept a plain string. Text parts are concatenated in order; media
// parts contribute their URL. Best-effort and lossy.
func FlattenParts(msg *llm.Message) string {
	if len(msg.Parts) == 0 {
		return msg.Content
	}
	var b strings.Builder
	for _, p := range msg.Parts {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if p.Type == llm.PartText {
			b.WriteString(p.Text)
		} else {
			b.WriteString(p.URL)
		}
	}
	return b.String()
}

// MarshalArguments serializes parsed tool-call input back to the JSON
// string form the OpenAI wire format expects. A nil input becomes "{}".
func MarshalArguments(input map[string]any) string {
	if input == nil {
		return "{}"
	}
	data, err := json.Marshal(input)
	if err != nil {
		return "{}"
	}
	return string(data)
}
