package llm

import (
	"github.com/unillm/unillm/pkg/transport"
)

// Service identifies a chat-completion vendor.
type Service string

const (
	ServiceOpenAI    Service = "openai"
	ServiceGroq      Service = "groq"
	ServiceDeepSeek  Service = "deepseek"
	ServiceXAI       Service = "xai"
	ServiceAnthropic Service = "anthropic"
	ServiceGoogle    Service = "google"
	ServiceOllama    Service = "ollama"
)

// Services lists every recognized service discriminant.
var Services = []Service{
	ServiceOpenAI,
	ServiceGroq,
	ServiceDeepSeek,
	ServiceXAI,
	ServiceAnthropic,
	ServiceGoogle,
	ServiceOllama,
}

// KnownService reports whether s is a recognized service discriminant.
func KnownService(s Service) bool {
	for _, known := range Services {
		if s == known {
			return true
		}
	}
	return false
}

// Role identifies who produced a message turn.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleSystem     Role = "system"
	RoleToolCall   Role = "tool_call"
	RoleToolResult Role = "tool_result"
)

// PartType classifies one element of multi-part message content.
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image"
	PartAudio PartType = "audio"
	PartVideo PartType = "video"
	PartFile  PartType = "file"
)

// ContentPart is one element of structured message content. Text parts
// carry Text; media parts carry a URL, which may be a data URL for inline
// payloads, plus an optional MIME type.
type ContentPart struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	URL      string   `json:"url,omitempty"`
	MimeType string   `json:"mime_type,omitempty"`
}

// Message is one turn in a conversation. Content and Parts are
// alternatives: when Parts is non-empty it takes precedence and Content is
// ignored. ToolCallID and Name link tool_result turns back to the call
// they answer; ToolCalls carries the calls issued by an assistant turn.
//
// The core never mutates a caller's Message.
type Message struct {
	Role       Role          `json:"role"`
	Content    string        `json:"content,omitempty"`
	Parts      []ContentPart `json:"parts,omitempty"`
	Reasoning  string        `json:"reasoning,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	ToolCalls  []ToolCall    `json:"tool_calls,omitempty"`
}

// UserMessage builds a plain-text user turn.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// SystemMessage builds a system turn.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// AssistantMessage builds a plain-text assistant turn.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// ToolResultMessage builds a tool_result turn answering the call with the
// given id and function name. Either linkage field may be empty when the
// target provider does not require it.
func ToolResultMessage(callID, name, content string) Message {
	return Message{
		Role:       RoleToolResult,
		Content:    content,
		ToolCallID: callID,
		Name:       name,
	}
}

// Tool declares a function the model may call. Parameters is a JSON
// Schema object describing the function arguments.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToolCall is a model-issued function invocation with parsed arguments.
// ID is stable for the life of a response and correlates subsequent
// tool_result messages.
type ToolCall struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// Usage holds token accounting for one call. ReasoningTokens and Cost are
// populated only when the vendor reports them.
type Usage struct {
	InputTokens     int      `json:"input_tokens"`
	OutputTokens    int      `json:"output_tokens"`
	TotalTokens     int      `json:"total_tokens"`
	ReasoningTokens int      `json:"reasoning_tokens,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
}

// Capabilities flags which payloads a decoded response actually carries.
// Each flag is true iff the corresponding field is non-empty after
// trimming; any combination may hold simultaneously.
type Capabilities struct {
	HasText      bool `json:"has_text"`
	HasReasoning bool `json:"has_reasoning"`
	HasToolCalls bool `json:"has_tool_calls"`
}

// Response is the unified non-streaming result. Messages equals the input
// conversation with one appended assistant turn mirroring Content,
// Reasoning, and ToolCalls.
type Response struct {
	Service      Service      `json:"service"`
	Model        string       `json:"model"`
	Content      string       `json:"content"`
	Reasoning    string       `json:"reasoning,omitempty"`
	ToolCalls    []ToolCall   `json:"tool_calls,omitempty"`
	Capabilities Capabilities `json:"capabilities"`
	Usage        Usage        `json:"usage"`
	Messages     []Message    `json:"messages"`
}

// ReasoningEffort selects how much reasoning a model should spend, for
// vendors that accept an effort knob.
type ReasoningEffort string

const (
	ReasoningEffortLow     ReasoningEffort = "low"
	ReasoningEffortMedium  ReasoningEffort = "medium"
	ReasoningEffortHigh    ReasoningEffort = "high"
	ReasoningEffortDefault ReasoningEffort = "default"
	ReasoningEffortNone    ReasoningEffort = "none"
)

// ReasoningFormat selects how reasoning text is returned by vendors that
// can either interleave it raw or separate it out.
type ReasoningFormat string

const (
	ReasoningFormatRaw    ReasoningFormat = "raw"
	ReasoningFormatParsed ReasoningFormat = "parsed"
)

// Config is the unified per-call request. Service selects the adapter;
// everything else is translated to the vendor wire format by that adapter.
//
// Optional numeric knobs are pointers so that "unset" is distinguishable
// from zero. Transport, when non-nil, overrides the process-wide default
// for this config.
type Config struct {
	Service  Service   `json:"service"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	APIKey  string            `json:"api_key,omitempty"`
	BaseURL string            `json:"base_url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`

	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	Tools        []Tool   `json:"tools,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`

	// BrowserMode requests browser-direct access headers where a vendor
	// needs them (Anthropic).
	BrowserMode bool `json:"browser_mode,omitempty"`

	ReasoningEffort ReasoningEffort `json:"reasoning_effort,omitempty"`
	ReasoningFormat ReasoningFormat `json:"reasoning_format,omitempty"`
	ThinkingBudget  *int            `json:"thinking_budget,omitempty"`
	IncludeThoughts bool            `json:"include_thoughts,omitempty"`

	Transport transport.Transport `json:"-"`
}

// Clone returns a shallow copy of the config with its own Messages slice
// header, so callers' slices are never extended in place.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// CallOptions are per-call overrides merged over a Config by the
// dispatcher; a set field wins over the config's value.
type CallOptions struct {
	Tools       []Tool
	Temperature *float64
	MaxTokens   *int
	Transport   transport.Transport
}

// WithAppendedAssistant returns messages plus one assistant turn mirroring
// the decoded response payload. The input slice is not modified.
func WithAppendedAssistant(messages []Message, content, reasoning string, toolCalls []ToolCall) []Message {
	out := make([]Message, len(messages), len(messages)+1)
	copy(out, messages)
	out = append(out, Message{
		Role:      RoleAssistant,
		Content:   content,
		Reasoning: reasoning,
		ToolCalls: toolCalls,
	})
	return out
}
