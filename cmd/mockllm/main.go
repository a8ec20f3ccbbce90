// Command mockllm runs a deterministic Chat Completions server for
// exercising the unillm client without credentials. Point any of the
// OpenAI-family adapters at it:
//
//	UNILLM_OPENAI_BASE_URL=http://localhost:9090/v1 unillm -model mock-model "hi"
//
// Behavior is derived from the request: a request carrying tools (and no
// tool result yet) answers with a tool call, a model name containing
// "reasoner" adds a reasoning trace, everything else echoes the last
// user message.
//
// Configuration:
//
//	MOCKLLM_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCKLLM_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []any         `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// reply is the classified answer for one request.
type reply struct {
	model     string
	text      string
	reasoning string
	toolCall  bool
}

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request body","type":"invalid_request_error"}}`, http.StatusBadRequest)
		return
	}

	rep := classify(&req)
	if req.Stream {
		writeStream(w, &rep)
		return
	}
	writeUnary(w, &rep)
}

// classify decides what the mock model answers. Tool declarations win
// until the conversation carries a tool result; after that the result is
// summarized so multi-round tool loops terminate.
func classify(req *chatRequest) reply {
	rep := reply{model: req.Model}
	if rep.model == "" {
		rep.model = "mock-model"
	}

	if strings.Contains(strings.ToLower(req.Model), "reasoner") {
		rep.reasoning = "The user asked a question; I will answer it directly."
	}

	if len(req.Tools) > 0 && !hasToolResult(req) {
		rep.toolCall = true
		return rep
	}
	if result := lastToolResult(req); result != "" {
		rep.text = "Based on the tool result: " + result
		return rep
	}

	rep.text = "You said: " + lastUserMessage(req)
	return rep
}

func writeUnary(w http.ResponseWriter, rep *reply) {
	message := map[string]any{"role": "assistant"}
	finish := "stop"
	completionTokens := 8

	if rep.toolCall {
		message["content"] = nil
		message["tool_calls"] = []any{mockToolCall()}
		finish = "tool_calls"
	} else {
		message["content"] = rep.text
	}
	if rep.reasoning != "" {
		message["reasoning_content"] = rep.reasoning
	}

	resp := map[string]any{
		"id":     "chatcmpl-mock",
		"object": "chat.completion",
		"model":  rep.model,
		"choices": []any{map[string]any{
			"index":         0,
			"message":       message,
			"finish_reason": finish,
		}},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": completionTokens,
			"total_tokens":      12 + completionTokens,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeStream emits the reply as SSE chunks: reasoning deltas, content
// (or fragmented tool-call deltas), a finish chunk, a usage-only chunk,
// then [DONE]. The usage-after-finish shape matches OpenAI's
// stream_options behavior.
func writeStream(w http.ResponseWriter, rep *reply) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	emit := func(chunk map[string]any) {
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	if rep.reasoning != "" {
		emit(deltaChunk(rep.model, map[string]any{"reasoning_content": rep.reasoning}, nil))
	}

	finish := "stop"
	tokens := 0
	if rep.toolCall {
		finish = "tool_calls"
		// Arguments split across chunks so clients exercise reassembly.
		call := mockToolCall()
		fn := call["function"].(map[string]any)
		args := fn["arguments"].(string)
		half := len(args) / 2
		emit(deltaChunk(rep.model, map[string]any{"tool_calls": []any{map[string]any{
			"index": 0, "id": call["id"],
			"function": map[string]any{"name": fn["name"], "arguments": args[:half]},
		}}}, nil))
		emit(deltaChunk(rep.model, map[string]any{"tool_calls": []any{map[string]any{
			"index":    0,
			"function": map[string]any{"arguments": args[half:]},
		}}}, nil))
		tokens = 2
	} else {
		for _, word := range strings.SplitAfter(rep.text, " ") {
			if word == "" {
				continue
			}
			emit(deltaChunk(rep.model, map[string]any{"content": word}, nil))
			tokens++
		}
	}

	emit(deltaChunk(rep.model, map[string]any{}, &finish))
	emit(map[string]any{
		"id": "chatcmpl-mock", "object": "chat.completion.chunk",
		"model":   rep.model,
		"choices": []any{},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": tokens,
			"total_tokens":      12 + tokens,
		},
	})
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func deltaChunk(model string, delta map[string]any, finish *string) map[string]any {
	choice := map[string]any{"index": 0, "delta": delta}
	if finish != nil {
		choice["finish_reason"] = *finish
	}
	return map[string]any{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion.chunk",
		"model":   model,
		"choices": []any{choice},
	}
}

func mockToolCall() map[string]any {
	return map[string]any{
		"id":   "call_mock_1",
		"type": "function",
		"function": map[string]any{
			"name":      "get_weather",
			"arguments": `{"location":"San Francisco","unit":"celsius"}`,
		},
	}
}

func lastUserMessage(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role != "user" {
			continue
		}
		switch v := req.Messages[i].Content.(type) {
		case string:
			return v
		case []any:
			for _, part := range v {
				if m, ok := part.(map[string]any); ok && m["type"] == "text" {
					if text, ok := m["text"].(string); ok {
						return text
					}
				}
			}
		}
	}
	return ""
}

func lastToolResult(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "tool" {
			if s, ok := req.Messages[i].Content.(string); ok {
				return s
			}
		}
	}
	return ""
}

func hasToolResult(req *chatRequest) bool {
	return lastToolResult(req) != ""
}
