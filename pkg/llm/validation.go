package llm

import (
	"fmt"
	"strings"
)

// ValidateConfig checks a unified config for well-formedness. It returns
// an *Error describing the first failure, or nil if the config is valid.
func ValidateConfig(cfg *Config) *Error {
	if cfg == nil {
		return NewConfigError("", "config is required")
	}
	if !KnownService(cfg.Service) {
		return NewUnsupportedServiceError(cfg.Service)
	}
	if cfg.Model == "" {
		return NewConfigError("model", "model is required")
	}
	if len(cfg.Messages) == 0 {
		return NewConfigError("messages", "messages must contain at least one entry")
	}
	for i, msg := range cfg.Messages {
		if msg.Role == "" {
			return NewConfigError("messages",
				fmt.Sprintf("message %d has no role", i))
		}
		if !messageHasPayload(&msg) {
			return NewConfigError("messages",
				fmt.Sprintf("message %d has no content, tool_calls, or tool_result payload", i))
		}
	}
	return nil
}

// messageHasPayload reports whether a message carries something sendable:
// content (text or parts), issued tool calls, or a tool_result role (whose
// empty content is a legitimate "no output" result).
func messageHasPayload(msg *Message) bool {
	if msg.Content != "" || len(msg.Parts) > 0 {
		return true
	}
	if len(msg.ToolCalls) > 0 {
		return true
	}
	return msg.Role == RoleToolResult
}

// ValidateToolResult checks that a tool_result message carries the
// linkage the given service requires: tool_call_id for the OpenAI family
// and Anthropic, the function name for Google, nothing for Ollama.
// Position is used for the error only.
func ValidateToolResult(service Service, msg *Message, position int) *Error {
	if msg.Role != RoleToolResult {
		return nil
	}
	switch {
	case IsOpenAICompatible(service) || service == ServiceAnthropic:
		if msg.ToolCallID == "" {
			return NewToolResultError(service, position,
				"tool_result requires tool_call_id")
		}
	case service == ServiceGoogle:
		if msg.Name == "" && msg.ToolCallID == "" {
			return NewToolResultError(service, position,
				"tool_result requires a function name (or a synthesized tool_call_id)")
		}
	case service == ServiceOllama:
		// Ollama ignores tool linkage entirely.
	}
	return nil
}

// ValidateFlow walks an OpenAI-family conversation and verifies that
// every tool_result answers an outstanding tool call.
//
// The walk maintains a set of pending call ids. An assistant turn with
// tool_calls replaces the set with its ids. A tool_result must find a
// non-empty set; one carrying an id must match a member, which is then
// consumed; one without an id is acceptable only when exactly one call is
// pending (the encoder later binds that id). Any other non-user message
// clears the set: user turns may legitimately appear between calls and
// results, so they do not.
func ValidateFlow(messages []Message) *Error {
	pending := map[string]bool{}

	for i, msg := range messages {
		switch {
		case msg.Role == RoleToolResult:
			if len(pending) == 0 {
				return NewFlowError(i, "tool_result without a preceding assistant tool call")
			}
			if msg.ToolCallID != "" {
				if !pending[msg.ToolCallID] {
					return NewFlowError(i, fmt.Sprintf(
						"tool_result references unknown tool_call_id %q", msg.ToolCallID))
				}
				delete(pending, msg.ToolCallID)
				continue
			}
			if len(pending) != 1 {
				return NewFlowError(i, fmt.Sprintf(
					"tool_result without tool_call_id is ambiguous: %d calls pending", len(pending)))
			}
			for id := range pending {
				delete(pending, id)
			}

		case (msg.Role == RoleAssistant || msg.Role == RoleToolCall) && len(msg.ToolCalls) > 0:
			pending = map[string]bool{}
			for _, tc := range msg.ToolCalls {
				pending[tc.ID] = true
			}

		case msg.Role == RoleUser:
			// Keep pending: user turns may interleave with tool results.

		default:
			// Assistant text, system, or anything else resolves the round.
			pending = map[string]bool{}
		}
	}
	return nil
}

// DeriveCapabilities computes the capability flags for the given decoded
// payloads: a flag is set iff its field is non-empty after trimming.
func DeriveCapabilities(content, reasoning string, toolCalls []ToolCall) Capabilities {
	return Capabilities{
		HasText:      strings.TrimSpace(content) != "",
		HasReasoning: strings.TrimSpace(reasoning) != "",
		HasToolCalls: len(toolCalls) > 0,
	}
}
