package openaicompat

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/unillm/unillm/pkg/debug"
	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider"
	"github.com/unillm/unillm/pkg/sse"
)

// streamState runs the streaming decode for one response. OpenAI delivers
// usage after finish_reason (with stream_options.include_usage), other
// family members attach it to the final chunk, and some backends send
// neither; the decoder therefore finalizes on the first of "finish seen
// and usage arrived" or end of stream.
type streamState struct {
	service llm.Service
	cfg     *llm.Config

	acc       *provider.ToolCallAccumulator
	content   strings.Builder
	reasoning strings.Builder
	toolCalls []llm.ToolCall
	usage     llm.Usage
	model     string

	sawFinish bool
	haveUsage bool
}

// DecodeStream reads SSE payloads from reader and emits unified chunks on
// out until the terminal complete chunk. It closes both the reader and
// the channel on every exit path.
func DecodeStream(service llm.Service, cfg *llm.Config, reader *sse.Reader, out chan<- llm.StreamChunk) {
	defer close(out)
	defer reader.Close()

	st := &streamState{
		service: service,
		cfg:     cfg,
		acc:     provider.NewToolCallAccumulator(),
		model:   cfg.Model,
	}

	for {
		payload, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out <- llm.StreamChunk{Err: llm.NewTransportError(service, err)}
			return
		}

		var chunk ChatChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			slog.Warn("skipping malformed stream chunk",
				"service", string(service),
				"error", err.Error(),
				"data", debug.Truncate(payload, 200),
			)
			continue
		}

		if st.apply(&chunk, out) {
			break
		}
	}

	st.complete(out)
}

// apply folds one parsed chunk into the state, emitting chunks as they
// materialize. It returns true once both finalization conditions hold.
func (st *streamState) apply(chunk *ChatChunk, out chan<- llm.StreamChunk) bool {
	if chunk.Model != "" {
		st.model = chunk.Model
	}

	if chunk.Usage != nil {
		st.usage = DecodeUsage(chunk.Usage)
		st.haveUsage = true
		out <- llm.StreamChunk{Type: llm.ChunkUsage, Usage: &st.usage}
	}

	if len(chunk.Choices) > 0 {
		choice := chunk.Choices[0]
		delta := choice.Delta

		switch {
		case delta.ReasoningContent != nil && *delta.ReasoningContent != "":
			st.reasoning.WriteString(*delta.ReasoningContent)
			out <- llm.StreamChunk{Type: llm.ChunkReasoning, Delta: *delta.ReasoningContent}
		case delta.Reasoning != nil && *delta.Reasoning != "":
			st.reasoning.WriteString(*delta.Reasoning)
			out <- llm.StreamChunk{Type: llm.ChunkReasoning, Delta: *delta.Reasoning}
		}

		if delta.Content != nil && *delta.Content != "" {
			st.content.WriteString(*delta.Content)
			out <- llm.StreamChunk{Type: llm.ChunkContent, Delta: *delta.Content}
		}

		for _, tc := range delta.ToolCalls {
			st.acc.Add(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)
		}

		if choice.FinishReason != nil {
			st.sawFinish = true
			st.flushToolCalls(out)
		}
	}

	return st.sawFinish && st.haveUsage
}

// flushToolCalls finalizes the accumulator and emits one tool_call chunk
// per completed call. Effective once; the accumulator drops calls whose
// arguments never became valid JSON.
func (st *streamState) flushToolCalls(out chan<- llm.StreamChunk) {
	for _, call := range st.acc.Finalize() {
		call := call
		st.toolCalls = append(st.toolCalls, call)
		out <- llm.StreamChunk{Type: llm.ChunkToolCall, ToolCall: &call}
	}
}

// complete emits the terminal chunk. Reached either because both flags
// hold or because the stream ended; any still-pending tool calls are
// finalized first, and usage stays zeroed when the stream never carried
// it.
func (st *streamState) complete(out chan<- llm.StreamChunk) {
	st.flushToolCalls(out)

	content := st.content.String()
	reasoning := st.reasoning.String()
	out <- llm.StreamChunk{
		Type: llm.ChunkComplete,
		Response: &llm.Response{
			Service:      st.service,
			Model:        st.model,
			Content:      content,
			Reasoning:    reasoning,
			ToolCalls:    st.toolCalls,
			Capabilities: llm.DeriveCapabilities(content, reasoning, st.toolCalls),
			Usage:        st.usage,
			Messages:     llm.WithAppendedAssistant(st.cfg.Messages, content, reasoning, st.toolCalls),
		},
	}
}
