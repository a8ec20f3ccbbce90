package llm

import "strings"

// ResponseType summarizes which payloads a response carries.
type ResponseType string

const (
	ResponseTypeText      ResponseType = "text"
	ResponseTypeToolCalls ResponseType = "tool_calls"
	ResponseTypeReasoning ResponseType = "reasoning"
	ResponseTypeComplex   ResponseType = "complex"
	ResponseTypeEmpty     ResponseType = "empty"
)

// HasTextContent reports whether the response carries non-blank text.
func HasTextContent(r *Response) bool {
	return r != nil && strings.TrimSpace(r.Content) != ""
}

// HasReasoning reports whether the response carries a reasoning trace.
func HasReasoning(r *Response) bool {
	return r != nil && strings.TrimSpace(r.Reasoning) != ""
}

// HasToolCalls reports whether the response carries tool calls.
func HasToolCalls(r *Response) bool {
	return r != nil && len(r.ToolCalls) > 0
}

// IsTextResponse reports whether the response is text-only.
func IsTextResponse(r *Response) bool {
	return HasTextContent(r) && !HasReasoning(r) && !HasToolCalls(r)
}

// IsToolCallResponse reports whether the response carries tool calls and
// nothing else.
func IsToolCallResponse(r *Response) bool {
	return HasToolCalls(r) && !HasTextContent(r) && !HasReasoning(r)
}

// IsReasoningResponse reports whether the response carries reasoning and
// nothing else.
func IsReasoningResponse(r *Response) bool {
	return HasReasoning(r) && !HasTextContent(r) && !HasToolCalls(r)
}

// IsComplexResponse reports whether the response carries more than one
// kind of payload.
func IsComplexResponse(r *Response) bool {
	count := 0
	if HasTextContent(r) {
		count++
	}
	if HasReasoning(r) {
		count++
	}
	if HasToolCalls(r) {
		count++
	}
	return count > 1
}

// GetResponseType classifies the response by its payloads.
func GetResponseType(r *Response) ResponseType {
	switch {
	case IsComplexResponse(r):
		return ResponseTypeComplex
	case HasToolCalls(r):
		return ResponseTypeToolCalls
	case HasReasoning(r):
		return ResponseTypeReasoning
	case HasTextContent(r):
		return ResponseTypeText
	default:
		return ResponseTypeEmpty
	}
}

// IsOpenAICompatible reports whether the service speaks the Chat
// Completions wire format.
func IsOpenAICompatible(s Service) bool {
	switch s {
	case ServiceOpenAI, ServiceGroq, ServiceDeepSeek, ServiceXAI:
		return true
	}
	return false
}

// RequiresAPIKey reports whether the service needs a credential. Only
// Ollama runs unauthenticated.
func RequiresAPIKey(s Service) bool {
	return s != ServiceOllama
}

// SupportsBearerAuth reports whether the service authenticates with an
// Authorization Bearer header. Anthropic and Google use vendor headers;
// Ollama uses none.
func SupportsBearerAuth(s Service) bool {
	return IsOpenAICompatible(s)
}
