package llm

import (
	"io"
	"sync"
)

// ChunkType tags one event on a streaming response.
type ChunkType string

const (
	ChunkContent   ChunkType = "content"
	ChunkReasoning ChunkType = "reasoning"
	ChunkToolCall  ChunkType = "tool_call"
	ChunkUsage     ChunkType = "usage"
	ChunkComplete  ChunkType = "complete"
)

// StreamChunk is a single event on a streaming response. The payload
// field corresponding to Type is set: Delta for content and reasoning,
// ToolCall for tool_call, Usage for usage, Response for the terminal
// complete chunk. Err is set when the transport failed mid-stream; it is
// the last chunk before the channel closes.
type StreamChunk struct {
	Type     ChunkType  `json:"type"`
	Delta    string     `json:"delta,omitempty"`
	ToolCall *ToolCall  `json:"tool_call,omitempty"`
	Usage    *Usage     `json:"usage,omitempty"`
	Response *Response  `json:"response,omitempty"`
	Err      error      `json:"-"`
}

// StreamingResponse is the handle to an in-flight stream. Chunks are
// consumed from Chunks(); Collect drains the remainder and returns the
// final unified response. Both may be used on the same handle: the
// terminal payload is cached as it passes through, so Collect returns the
// same response even after the channel was drained elsewhere. A caller
// that stops consuming before the terminal chunk must Close the handle to
// release the underlying network body.
type StreamingResponse struct {
	Service Service
	Model   string

	chunks chan StreamChunk
	done   chan struct{}
	closed chan struct{}
	body   io.Closer

	closeOnce sync.Once

	mu    sync.Mutex
	final *Response
	err   error
}

// NewStreamingResponse wraps a decoder's chunk source in a handle. The
// source channel must be closed by the decoder after its terminal chunk
// (complete, or an error chunk on transport failure). body is the
// decoder's reader over the network response; Close releases it when the
// caller abandons the stream. A nil body is allowed for canned sources.
func NewStreamingResponse(service Service, model string, src <-chan StreamChunk, body io.Closer) *StreamingResponse {
	sr := &StreamingResponse{
		Service: service,
		Model:   model,
		chunks:  make(chan StreamChunk, 16),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
		body:    body,
	}
	go func() {
		defer close(sr.done)
		defer close(sr.chunks)
		for chunk := range src {
			sr.record(chunk)
			select {
			case sr.chunks <- chunk:
			case <-sr.closed:
				// Abandoned. Keep draining so the decoder's pending
				// sends unblock and it can run its cleanup.
				for c := range src {
					sr.record(c)
				}
				return
			}
		}
	}()
	return sr
}

// Close abandons the stream: the underlying network body is closed and
// chunks not yet delivered are discarded. Done is still closed once the
// decoder finishes. Safe to call more than once, and unnecessary after
// the chunk channel has been drained to its close.
func (sr *StreamingResponse) Close() error {
	var err error
	sr.closeOnce.Do(func() {
		close(sr.closed)
		if sr.body != nil {
			err = sr.body.Close()
		}
	})
	return err
}

// Chunks returns the event stream. It is closed after the terminal chunk.
func (sr *StreamingResponse) Chunks() <-chan StreamChunk {
	return sr.chunks
}

// Done is closed once every chunk has been delivered and the terminal
// payload is cached. After Done, Collect returns without consuming
// anything.
func (sr *StreamingResponse) Done() <-chan struct{} {
	return sr.done
}

// Collect drains any remaining chunks and returns the final response.
// The result is memoized: calling Collect again, or after consuming the
// channel directly, returns the same value.
func (sr *StreamingResponse) Collect() (*Response, error) {
	for range sr.chunks {
	}
	<-sr.done

	sr.mu.Lock()
	defer sr.mu.Unlock()
	if sr.err != nil {
		return nil, sr.err
	}
	if sr.final == nil {
		return nil, &Error{
			Type:    ErrorTypeTransport,
			Service: sr.Service,
			Message: "stream ended without a complete chunk",
		}
	}
	return sr.final, nil
}

func (sr *StreamingResponse) record(chunk StreamChunk) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if chunk.Type == ChunkComplete && chunk.Response != nil {
		sr.final = chunk.Response
	}
	if chunk.Err != nil {
		sr.err = chunk.Err
	}
}
