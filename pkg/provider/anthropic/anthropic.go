// Package anthropic adapts the unified model to the Anthropic Messages
// API: system lifting, content blocks, extended thinking, and tool_use.
package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/sse"
	"github.com/unillm/unillm/pkg/transport"
)

// DefaultBaseURL is the Anthropic API endpoint.
const DefaultBaseURL = "https://api.anthropic.com/v1"

// apiVersion pins the Messages API revision this adapter encodes.
const apiVersion = "2023-06-01"

// thinkingBeta opts in to extended thinking.
const thinkingBeta = "thinking-2024-12-03"

// Adapter implements provider.Adapter for Anthropic.
type Adapter struct{}

// New creates the Anthropic adapter.
func New() *Adapter {
	return &Adapter{}
}

// Service returns the service discriminant.
func (a *Adapter) Service() llm.Service {
	return llm.ServiceAnthropic
}

// Call performs non-streaming inference.
func (a *Adapter) Call(ctx context.Context, cfg *llm.Config) (*llm.Response, error) {
	resp, err := a.dispatch(ctx, cfg, false)
	if err != nil {
		return nil, err
	}

	var msgResp messagesResponse
	if err := resp.DecodeJSON(&msgResp); err != nil {
		return nil, llm.NewTransportError(llm.ServiceAnthropic, err)
	}
	return decodeResponse(cfg, &msgResp), nil
}

// Stream performs streaming inference.
func (a *Adapter) Stream(ctx context.Context, cfg *llm.Config) (*llm.StreamingResponse, error) {
	resp, err := a.dispatch(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	reader := sse.NewReader(resp.Body)
	src := make(chan llm.StreamChunk, 16)
	go decodeStream(cfg, reader, src)
	return llm.NewStreamingResponse(llm.ServiceAnthropic, cfg.Model, src, reader), nil
}

func (a *Adapter) dispatch(ctx context.Context, cfg *llm.Config, stream bool) (*transport.Response, error) {
	req := encodeRequest(cfg, stream)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, llm.NewTransportError(llm.ServiceAnthropic, err)
	}

	headers := map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         cfg.APIKey,
		"anthropic-version": apiVersion,
	}
	if req.Thinking != nil {
		headers["anthropic-beta"] = thinkingBeta
	}
	if cfg.BrowserMode {
		headers["anthropic-dangerous-direct-browser-access"] = "true"
	}
	if stream {
		headers["Accept"] = "text/event-stream"
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/messages"

	send := transport.Resolve(nil, cfg.Transport)
	resp, err := send(ctx, url, &transport.Request{
		Method:  "POST",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, llm.NewTransportError(llm.ServiceAnthropic, err)
	}
	if !resp.OK() {
		return nil, mapHTTPError(resp)
	}
	return resp, nil
}

// decodeResponse aggregates the response block list: text blocks become
// content, thinking blocks reasoning, tool_use blocks tool calls.
func decodeResponse(cfg *llm.Config, msgResp *messagesResponse) *llm.Response {
	model := msgResp.Model
	if model == "" {
		model = cfg.Model
	}

	var content, reasoning strings.Builder
	var toolCalls []llm.ToolCall
	for _, block := range msgResp.Content {
		switch block.Type {
		case "text":
			content.WriteString(block.Text)
		case "thinking":
			reasoning.WriteString(block.Thinking)
		case "tool_use":
			toolCalls = append(toolCalls, llm.ToolCall{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}

	text := content.String()
	thinking := reasoning.String()
	return &llm.Response{
		Service:      llm.ServiceAnthropic,
		Model:        model,
		Content:      text,
		Reasoning:    thinking,
		ToolCalls:    toolCalls,
		Capabilities: llm.DeriveCapabilities(text, thinking, toolCalls),
		Usage:        decodeUsage(&msgResp.Usage),
		Messages:     llm.WithAppendedAssistant(cfg.Messages, text, thinking, toolCalls),
	}
}

func decodeUsage(u *anthUsage) llm.Usage {
	return llm.Usage{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.InputTokens + u.OutputTokens,
	}
}

// mapHTTPError converts a non-2xx response, reading the vendor error
// envelope for a message.
func mapHTTPError(resp *transport.Response) *llm.Error {
	message := ""
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if err == nil && len(data) > 0 {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil {
			message = errResp.Error.Message
		}
	}
	if message == "" {
		message = "request failed with status " + resp.Status
	}
	return llm.NewProviderError(llm.ServiceAnthropic, resp.StatusCode, message)
}
