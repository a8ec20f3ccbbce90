package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// Request describes one outbound HTTP request.
type Request struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// Response is the transport-level result. Body is the raw byte stream;
// for streaming calls the decoder reads it incrementally and must close
// it on every exit path.
type Response struct {
	StatusCode int
	Status     string
	Body       io.ReadCloser
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON reads the full body and unmarshals it into v, closing the
// body afterwards.
func (r *Response) DecodeJSON(v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// Transport sends one HTTP request. Implementations must honor ctx
// cancellation: an aborted context fails the call (or the next body read
// for in-flight streams) with the context's error.
type Transport func(ctx context.Context, url string, req *Request) (*Response, error)

// HTTPTransport builds a Transport backed by the given http.Client. A nil
// client uses a shared client without a fixed timeout; streaming responses
// can legitimately outlive any static deadline, so lifecycle control is
// the caller's context.
func HTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = ambientClient
	}
	return func(ctx context.Context, url string, req *Request) (*Response, error) {
		method := req.Method
		if method == "" {
			method = http.MethodPost
		}
		var body io.Reader
		if len(req.Body) > 0 {
			body = bytes.NewReader(req.Body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}
		httpResp, err := client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		return &Response{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       httpResp.Body,
		}, nil
	}
}

// ambientClient backs the built-in transport. No Timeout: streams are
// bounded by context, and unary callers pass deadlines via ctx.
var ambientClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 0,
	},
}

// defaultTransport holds the process-wide default. Writes are single
// pointer swaps; readers tolerate concurrent writes because any observed
// value is a valid transport.
var defaultTransport atomic.Pointer[Transport]

// SetDefault installs t as the process-wide default transport. Passing
// nil restores the ambient net/http transport.
func SetDefault(t Transport) {
	if t == nil {
		defaultTransport.Store(nil)
		return
	}
	defaultTransport.Store(&t)
}

// Default returns the process-wide default transport: the last value
// passed to SetDefault, or the ambient net/http transport.
func Default() Transport {
	if t := defaultTransport.Load(); t != nil {
		return *t
	}
	return HTTPTransport(nil)
}

// Resolve applies the override precedence: the first non-nil of perCall
// and perConfig wins, then the process-wide default (which itself falls
// back to the ambient transport).
func Resolve(perCall, perConfig Transport) Transport {
	if perCall != nil {
		return perCall
	}
	if perConfig != nil {
		return perConfig
	}
	return Default()
}
