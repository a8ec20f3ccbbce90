// Package ollama adapts the unified model to a local Ollama server.
// Streaming is newline-delimited JSON rather than SSE, there is no
// authentication, and tool declarations are accepted but dropped.
package ollama

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider"
	"github.com/unillm/unillm/pkg/sse"
	"github.com/unillm/unillm/pkg/transport"
)

// DefaultBaseURL is the local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// Adapter implements provider.Adapter for Ollama.
type Adapter struct{}

// New creates the Ollama adapter.
func New() *Adapter {
	return &Adapter{}
}

// Service returns the service discriminant.
func (a *Adapter) Service() llm.Service {
	return llm.ServiceOllama
}

// chatRequest is the body for POST {base}/api/chat.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

// chatResponse is both the unary body and one NDJSON stream line.
type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Error           string      `json:"error,omitempty"`
}

// Call performs non-streaming inference.
func (a *Adapter) Call(ctx context.Context, cfg *llm.Config) (*llm.Response, error) {
	resp, err := a.dispatch(ctx, cfg, false)
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := resp.DecodeJSON(&chatResp); err != nil {
		return nil, llm.NewTransportError(llm.ServiceOllama, err)
	}
	return decodeResponse(cfg, &chatResp), nil
}

// Stream performs streaming inference over NDJSON lines.
func (a *Adapter) Stream(ctx context.Context, cfg *llm.Config) (*llm.StreamingResponse, error) {
	resp, err := a.dispatch(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	reader := sse.NewLineReader(resp.Body)
	src := make(chan llm.StreamChunk, 16)
	go decodeStream(cfg, reader, src)
	return llm.NewStreamingResponse(llm.ServiceOllama, cfg.Model, src, reader), nil
}

func (a *Adapter) dispatch(ctx context.Context, cfg *llm.Config, stream bool) (*transport.Response, error) {
	if len(cfg.Tools) > 0 {
		slog.Debug("ollama adapter ignores tool declarations",
			"tool_count", len(cfg.Tools),
		)
	}

	req := chatRequest{
		Model:  cfg.Model,
		Stream: stream,
	}
	if cfg.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: cfg.SystemPrompt})
	}
	for i := range cfg.Messages {
		msg := &cfg.Messages[i]
		role := string(msg.Role)
		switch msg.Role {
		case llm.RoleToolResult:
			role = "tool"
		case llm.RoleToolCall:
			role = "assistant"
		}
		// Structured content flattens to text; Ollama takes plain strings.
		req.Messages = append(req.Messages, chatMessage{
			Role:    role,
			Content: provider.FlattenParts(msg),
		})
	}
	if cfg.Temperature != nil || cfg.MaxTokens != nil {
		req.Options = &chatOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, llm.NewTransportError(llm.ServiceOllama, err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/api/chat"

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	send := transport.Resolve(nil, cfg.Transport)
	resp, err := send(ctx, url, &transport.Request{
		Method:  "POST",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, llm.NewTransportError(llm.ServiceOllama, err)
	}
	if !resp.OK() {
		return nil, mapHTTPError(resp)
	}
	return resp, nil
}

func decodeResponse(cfg *llm.Config, chatResp *chatResponse) *llm.Response {
	model := chatResp.Model
	if model == "" {
		model = cfg.Model
	}
	content := chatResp.Message.Content
	return &llm.Response{
		Service:      llm.ServiceOllama,
		Model:        model,
		Content:      content,
		Capabilities: llm.DeriveCapabilities(content, "", nil),
		Usage:        decodeUsage(chatResp),
		Messages:     llm.WithAppendedAssistant(cfg.Messages, content, "", nil),
	}
}

func decodeUsage(chatResp *chatResponse) llm.Usage {
	return llm.Usage{
		InputTokens:  chatResp.PromptEvalCount,
		OutputTokens: chatResp.EvalCount,
		TotalTokens:  chatResp.PromptEvalCount + chatResp.EvalCount,
	}
}

// decodeStream reads NDJSON lines until one with done=true, which
// carries the final token counts.
func decodeStream(cfg *llm.Config, reader *sse.LineReader, out chan<- llm.StreamChunk) {
	defer close(out)
	defer reader.Close()

	var content strings.Builder
	var usage llm.Usage
	haveUsage := false
	model := cfg.Model

	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out <- llm.StreamChunk{Err: llm.NewTransportError(llm.ServiceOllama, err)}
			return
		}

		var chunk chatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			slog.Warn("skipping malformed stream line",
				"service", string(llm.ServiceOllama),
				"error", err.Error(),
			)
			continue
		}

		if chunk.Model != "" {
			model = chunk.Model
		}
		if chunk.Message.Content != "" {
			content.WriteString(chunk.Message.Content)
			out <- llm.StreamChunk{Type: llm.ChunkContent, Delta: chunk.Message.Content}
		}
		if chunk.Done {
			usage = decodeUsage(&chunk)
			haveUsage = true
			break
		}
	}

	if haveUsage {
		u := usage
		out <- llm.StreamChunk{Type: llm.ChunkUsage, Usage: &u}
	}

	text := content.String()
	out <- llm.StreamChunk{
		Type: llm.ChunkComplete,
		Response: &llm.Response{
			Service:      llm.ServiceOllama,
			Model:        model,
			Content:      text,
			Capabilities: llm.DeriveCapabilities(text, "", nil),
			Usage:        usage,
			Messages:     llm.WithAppendedAssistant(cfg.Messages, text, "", nil),
		},
	}
}

// mapHTTPError converts a non-2xx response; Ollama reports errors as
// {"error": "..."}.
func mapHTTPError(resp *transport.Response) *llm.Error {
	message := ""
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if err == nil && len(data) > 0 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil {
			message = errResp.Error
		}
	}
	if message == "" {
		message = "request failed with status " + resp.Status
	}
	return llm.NewProviderError(llm.ServiceOllama, resp.StatusCode, message)
}
