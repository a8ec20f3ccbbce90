// Package google adapts the unified model to the Gemini generateContent
// API: systemInstruction lifting, inline and file media parts, function
// calls linked by name, and synthesized call ids.
package google

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/sse"
	"github.com/unillm/unillm/pkg/transport"
)

// DefaultBaseURL is the Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Adapter implements provider.Adapter for Gemini.
type Adapter struct{}

// New creates the Google adapter.
func New() *Adapter {
	return &Adapter{}
}

// Service returns the service discriminant.
func (a *Adapter) Service() llm.Service {
	return llm.ServiceGoogle
}

// Call performs non-streaming inference.
func (a *Adapter) Call(ctx context.Context, cfg *llm.Config) (*llm.Response, error) {
	resp, err := a.dispatch(ctx, cfg, false)
	if err != nil {
		return nil, err
	}

	var genResp generateResponse
	if err := resp.DecodeJSON(&genResp); err != nil {
		return nil, llm.NewTransportError(llm.ServiceGoogle, err)
	}
	return decodeResponse(cfg, &genResp), nil
}

// Stream performs streaming inference via streamGenerateContent?alt=sse.
func (a *Adapter) Stream(ctx context.Context, cfg *llm.Config) (*llm.StreamingResponse, error) {
	resp, err := a.dispatch(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	reader := sse.NewReader(resp.Body)
	src := make(chan llm.StreamChunk, 16)
	go decodeStream(cfg, reader, src)
	return llm.NewStreamingResponse(llm.ServiceGoogle, cfg.Model, src, reader), nil
}

func (a *Adapter) dispatch(ctx context.Context, cfg *llm.Config, stream bool) (*transport.Response, error) {
	req := encodeRequest(cfg)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, llm.NewTransportError(llm.ServiceGoogle, err)
	}

	headers := map[string]string{
		"Content-Type":   "application/json",
		"x-goog-api-key": cfg.APIKey,
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/models/" + cfg.Model
	if stream {
		url += ":streamGenerateContent?alt=sse"
	} else {
		url += ":generateContent"
	}

	send := transport.Resolve(nil, cfg.Transport)
	resp, err := send(ctx, url, &transport.Request{
		Method:  "POST",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, llm.NewTransportError(llm.ServiceGoogle, err)
	}
	if !resp.OK() {
		return nil, mapHTTPError(resp)
	}
	return resp, nil
}

// decodeResponse aggregates candidate 0's parts: text into content,
// thinking and thought summaries into reasoning, functionCall parts into
// tool calls with synthesized ids.
func decodeResponse(cfg *llm.Config, genResp *generateResponse) *llm.Response {
	model := genResp.ModelVersion
	if model == "" {
		model = cfg.Model
	}

	var content, reasoning strings.Builder
	var toolCalls []llm.ToolCall
	if len(genResp.Candidates) > 0 {
		cand := genResp.Candidates[0]
		collectParts(&cand, &content, &reasoning, &toolCalls)
	}

	text := content.String()
	thinking := reasoning.String()
	return &llm.Response{
		Service:      llm.ServiceGoogle,
		Model:        model,
		Content:      text,
		Reasoning:    thinking,
		ToolCalls:    toolCalls,
		Capabilities: llm.DeriveCapabilities(text, thinking, toolCalls),
		Usage:        decodeUsage(genResp.UsageMetadata),
		Messages:     llm.WithAppendedAssistant(cfg.Messages, text, thinking, toolCalls),
	}
}

// collectParts folds one candidate's parts and thought summaries into the
// aggregation builders.
func collectParts(cand *gCandidate, content, reasoning *strings.Builder, toolCalls *[]llm.ToolCall) {
	for _, part := range cand.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			*toolCalls = append(*toolCalls, llm.ToolCall{
				ID:    synthesizeCallID(part.FunctionCall.Name),
				Name:  part.FunctionCall.Name,
				Input: args,
			})
		case part.Thinking != "":
			reasoning.WriteString(part.Thinking)
		case part.Text != "":
			content.WriteString(part.Text)
		}
	}
	for _, ts := range cand.ThoughtSummaries {
		reasoning.WriteString(ts.Content)
	}
}

func decodeUsage(u *gUsageMetadata) llm.Usage {
	if u == nil {
		return llm.Usage{}
	}
	return llm.Usage{
		InputTokens:     u.PromptTokenCount,
		OutputTokens:    u.CandidatesTokenCount,
		TotalTokens:     u.TotalTokenCount,
		ReasoningTokens: u.ThoughtsTokenCount,
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
	return llm.NewProviderError(llm.ServiceGoogle, resp.StatusCode, message)
}
