package openaicompat

// Wire types for the Chat Completions endpoint. Field names follow the
// OpenAI API; pointers distinguish absent from empty where the decoders
// care.

// ChatRequest is the request body for POST {base}/chat/completions.
type ChatRequest struct {
	Model           string             `json:"model"`
	Messages        []ChatMessage      `json:"messages"`
	Temperature     *float64           `json:"temperature,omitempty"`
	MaxTokens       *int               `json:"max_tokens,omitempty"`
	Stream          bool               `json:"stream,omitempty"`
	StreamOptions   *ChatStreamOptions `json:"stream_options,omitempty"`
	Tools           []ChatTool         `json:"tools,omitempty"`
	ReasoningEffort string             `json:"reasoning_effort,omitempty"`
	ReasoningFormat string             `json:"reasoning_format,omitempty"`
}

// ChatStreamOptions requests usage reporting on the stream.
type ChatStreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// ChatMessage is one conversation entry. Content is a string, nil (legal
// on assistant messages that only carry tool calls), or a part list.
type ChatMessage struct {
	Role       string         `json:"role"`
	Content    any            `json:"content"`
	ToolCalls  []ChatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

// ChatContentPart is one element of multi-part message content.
type ChatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *ChatImageURL `json:"image_url,omitempty"`
}

// ChatImageURL carries an image reference, remote or data URL.
type ChatImageURL struct {
	URL string `json:"url"`
}

// ChatToolCall is a tool call entry on an assistant message.
type ChatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ChatFunctionCall `json:"function"`
}

// ChatFunctionCall holds the function name and JSON-encoded arguments.
type ChatFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatTool is a function declaration in wire form.
type ChatTool struct {
	Type     string          `json:"type"`
	Function ChatFunctionDef `json:"function"`
}

// ChatFunctionDef describes one callable function.
type ChatFunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ChatResponse is the unary response body.
type ChatResponse struct {
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *ChatUsage   `json:"usage"`
}

// ChatChoice is one completion alternative; the decoders use choice 0.
type ChatChoice struct {
	Message      ChatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

// ChatResponseMessage is the assistant message of a unary response.
// Reasoning arrives as reasoning_content (DeepSeek, Groq) or reasoning
// (xAI); both are checked.
type ChatResponseMessage struct {
	Role             string         `json:"role"`
	Content          *string        `json:"content"`
	ReasoningContent *string        `json:"reasoning_content"`
	Reasoning        *string        `json:"reasoning"`
	ToolCalls        []ChatToolCall `json:"tool_calls"`
}

// ChatUsage is the wire token accounting.
type ChatUsage struct {
	PromptTokens            int                      `json:"prompt_tokens"`
	CompletionTokens        int                      `json:"completion_tokens"`
	TotalTokens             int                      `json:"total_tokens"`
	CompletionTokensDetails *ChatCompletionsDetails  `json:"completion_tokens_details,omitempty"`
}

// ChatCompletionsDetails carries the reasoning token split when reported.
type ChatCompletionsDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// ChatChunk is one streamed SSE payload.
type ChatChunk struct {
	Model   string            `json:"model"`
	Choices []ChatChunkChoice `json:"choices"`
	Usage   *ChatUsage        `json:"usage"`
}

// ChatChunkChoice is the delta wrapper of a streamed chunk.
type ChatChunkChoice struct {
	Delta        ChatDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

// ChatDelta carries the incremental payload of one chunk.
type ChatDelta struct {
	Role             string              `json:"role,omitempty"`
	Content          *string             `json:"content"`
	ReasoningContent *string             `json:"reasoning_content"`
	Reasoning        *string             `json:"reasoning"`
	ToolCalls        []ChatDeltaToolCall `json:"tool_calls"`
}

// ChatDeltaToolCall is one tool-call fragment. Index correlates fragments
// of the same call; ID may arrive on any fragment.
type ChatDeltaToolCall struct {
	Index    int              `json:"index"`
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type,omitempty"`
	Function ChatFunctionCall `json:"function"`
}

// ChatErrorResponse is the vendor error envelope.
type ChatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
