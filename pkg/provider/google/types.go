package google

// Wire types for the Gemini generateContent API.

// generateRequest is the body for POST {base}/models/{model}:generateContent.
type generateRequest struct {
	SystemInstruction *gContent          `json:"systemInstruction,omitempty"`
	Contents          []gContent         `json:"contents"`
	Tools             []gTool            `json:"tools,omitempty"`
	GenerationConfig  *generationConfig  `json:"generationConfig,omitempty"`
}

// generationConfig carries sampling and thinking knobs.
type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
	ThinkingBudget  *int     `json:"thinkingBudget,omitempty"`
	IncludeThoughts bool     `json:"includeThoughts,omitempty"`
}

// gContent is one conversation entry; roles are "user" and "model".
type gContent struct {
	Role  string  `json:"role,omitempty"`
	Parts []gPart `json:"parts"`
}

// gPart is one content part; exactly one field is set.
type gPart struct {
	Text             string             `json:"text,omitempty"`
	Thinking         string             `json:"thinking,omitempty"`
	InlineData       *gInlineData       `json:"inlineData,omitempty"`
	FileData         *gFileData         `json:"fileData,omitempty"`
	FunctionCall     *gFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *gFunctionResponse `json:"functionResponse,omitempty"`
}

// gInlineData carries base64 image bytes with their MIME type.
type gInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// gFileData references uploaded or remote media by URI.
type gFileData struct {
	FileURI string `json:"fileUri"`
}

// gFunctionCall is a model-issued invocation; Gemini provides no call id.
type gFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// gFunctionResponse answers a function call, linked by name.
type gFunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// gTool wraps function declarations.
type gTool struct {
	FunctionDeclarations []gFunctionDecl `json:"function_declarations"`
}

// gFunctionDecl describes one callable function.
type gFunctionDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// generateResponse is the unary response body and the per-event payload
// of the SSE stream.
type generateResponse struct {
	Candidates    []gCandidate    `json:"candidates"`
	UsageMetadata *gUsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string          `json:"modelVersion,omitempty"`
}

// gCandidate is one completion alternative; the decoders use candidate 0.
type gCandidate struct {
	Content          gContent          `json:"content"`
	FinishReason     string            `json:"finishReason,omitempty"`
	ThoughtSummaries []gThoughtSummary `json:"thoughtSummaries,omitempty"`
}

// gThoughtSummary is a condensed reasoning trace entry.
type gThoughtSummary struct {
	Content string `json:"content"`
}

// gUsageMetadata is the wire token accounting.
type gUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
	ThoughtsTokenCount   int `json:"thoughtsTokenCount,omitempty"`
}

// errorResponse is the vendor error envelope.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
