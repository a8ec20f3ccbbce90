package anthropic

// Wire types for the Anthropic Messages API.

// messagesRequest is the body for POST {base}/messages.
type messagesRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	System      string         `json:"system,omitempty"`
	Messages    []anthMessage  `json:"messages"`
	Temperature *float64       `json:"temperature,omitempty"`
	Tools       []anthTool     `json:"tools,omitempty"`
	Stream      bool           `json:"stream,omitempty"`
	Thinking    *anthThinking  `json:"thinking,omitempty"`
}

// anthThinking enables extended thinking with a token budget.
type anthThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens,omitempty"`
}

// anthMessage is one conversation entry; Content is a string or a block
// list.
type anthMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// anthBlock is one content block. The populated fields depend on Type:
// text blocks carry Text, thinking blocks Thinking, tool_use blocks
// ID/Name/Input, tool_result blocks ToolUseID/Content, image blocks
// Source.
type anthBlock struct {
	Type      string           `json:"type"`
	Text      string           `json:"text,omitempty"`
	Thinking  string           `json:"thinking,omitempty"`
	ID        string           `json:"id,omitempty"`
	Name      string           `json:"name,omitempty"`
	Input     map[string]any   `json:"input,omitempty"`
	ToolUseID string           `json:"tool_use_id,omitempty"`
	Content   string           `json:"content,omitempty"`
	Source    *anthImageSource `json:"source,omitempty"`
}

// anthImageSource references an image, inline base64 or by URL.
type anthImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// anthTool is a function declaration in wire form.
type anthTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// messagesResponse is the unary response body.
type messagesResponse struct {
	Model   string      `json:"model"`
	Content []anthBlock `json:"content"`
	Usage   anthUsage   `json:"usage"`
}

// anthUsage is the wire token accounting.
type anthUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// streamEvent is one SSE payload; Type selects which fields are set.
type streamEvent struct {
	Type         string          `json:"type"`
	Message      *streamMessage  `json:"message,omitempty"`
	Index        int             `json:"index,omitempty"`
	ContentBlock *anthBlock      `json:"content_block,omitempty"`
	Delta        *streamDelta    `json:"delta,omitempty"`
	Usage        *anthUsage      `json:"usage,omitempty"`
}

// streamMessage is the envelope of a message_start event.
type streamMessage struct {
	Model string    `json:"model"`
	Usage anthUsage `json:"usage"`
}

// streamDelta carries the payload of content_block_delta and
// message_delta events.
type streamDelta struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Thinking   string `json:"thinking,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// errorResponse is the vendor error envelope.
type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
