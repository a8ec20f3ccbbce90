package openaicompat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/unillm/unillm/pkg/debug"
	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/sse"
	"github.com/unillm/unillm/pkg/transport"
)

// Options configures a Client for one vendor of the OpenAI family.
type Options struct {
	// Service is the discriminant this client serves.
	Service llm.Service

	// DefaultBaseURL is used when the config does not set one.
	DefaultBaseURL string

	// IncludeStreamUsage requests usage as a trailing stream chunk via
	// stream_options (OpenAI delivers usage after finish_reason).
	IncludeStreamUsage bool

	// Tune applies vendor-specific parameters (reasoning knobs) to the
	// encoded request. May be nil.
	Tune func(model string, cfg *llm.Config, req *ChatRequest)
}

// Client is a Chat Completions adapter. The vendor packages embed it with
// their Options; all encoding and decoding is shared.
type Client struct {
	opts Options
}

// New creates a Client for the given vendor options.
func New(opts Options) *Client {
	opts.DefaultBaseURL = strings.TrimRight(opts.DefaultBaseURL, "/")
	return &Client{opts: opts}
}

// Service returns the vendor discriminant.
func (c *Client) Service() llm.Service {
	return c.opts.Service
}

// Call performs non-streaming inference.
func (c *Client) Call(ctx context.Context, cfg *llm.Config) (*llm.Response, error) {
	resp, err := c.dispatch(ctx, cfg, false)
	if err != nil {
		return nil, err
	}

	var chatResp ChatResponse
	if err := resp.DecodeJSON(&chatResp); err != nil {
		return nil, llm.NewTransportError(c.opts.Service, err)
	}
	return DecodeResponse(cfg, c.opts.Service, &chatResp), nil
}

// Stream performs streaming inference. The returned handle's chunk
// channel is fed by the shared SSE decoder.
func (c *Client) Stream(ctx context.Context, cfg *llm.Config) (*llm.StreamingResponse, error) {
	resp, err := c.dispatch(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	reader := sse.NewReader(resp.Body)
	src := make(chan llm.StreamChunk, 16)
	go DecodeStream(c.opts.Service, cfg, reader, src)
	return llm.NewStreamingResponse(c.opts.Service, cfg.Model, src, reader), nil
}

// dispatch encodes the request, resolves the transport, and returns the
// raw response after status checking. The caller owns the body.
func (c *Client) dispatch(ctx context.Context, cfg *llm.Config, stream bool) (*transport.Response, error) {
	req := EncodeRequest(cfg, stream, c.opts.Tune)
	if stream && c.opts.IncludeStreamUsage {
		req.StreamOptions = &ChatStreamOptions{IncludeUsage: true}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, llm.NewTransportError(c.opts.Service, err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	if stream {
		headers["Accept"] = "text/event-stream"
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = c.opts.DefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/chat/completions"

	debug.Log("providers", "dispatching request",
		"service", string(c.opts.Service),
		"url", url,
		"stream", stream,
	)
	if debug.TraceIsEnabled("providers") {
		debug.Raw("providers", string(body))
	}

	send := transport.Resolve(nil, cfg.Transport)
	resp, err := send(ctx, url, &transport.Request{
		Method:  "POST",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, llm.NewTransportError(c.opts.Service, err)
	}
	if !resp.OK() {
		return nil, MapHTTPError(c.opts.Service, resp)
	}
	return resp, nil
}
