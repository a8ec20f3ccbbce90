package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/transport"
)

// fakeBackend records requests and serves a canned OpenAI-family body.
type fakeBackend struct {
	urls   []string
	bodies []map[string]any
	status int
	reply  string
}

func (f *fakeBackend) transport(t *testing.T) transport.Transport {
	t.Helper()
	return func(ctx context.Context, url string, req *transport.Request) (*transport.Response, error) {
		f.urls = append(f.urls, url)
		var body map[string]any
		if err := json.Unmarshal(req.Body, &body); err != nil {
			t.Fatalf("request body not valid JSON: %v", err)
		}
		f.bodies = append(f.bodies, body)
		status := f.status
		if status == 0 {
			status = 200
		}
		return &transport.Response{
			StatusCode: status,
			Status:     "canned",
			Body:       io.NopCloser(strings.NewReader(f.reply)),
		}, nil
	}
}

const unaryReply = `{
	"model": "gpt-4o",
	"choices": [{"message": {"role": "assistant", "content": "Paris."}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

func TestSend(t *testing.T) {
	backend := &fakeBackend{reply: unaryReply}
	cfg := &llm.Config{
		Service:   llm.ServiceOpenAI,
		Model:     "gpt-4o",
		APIKey:    "sk-test",
		Messages:  []llm.Message{llm.UserMessage("capital of France?")},
		Transport: backend.transport(t),
	}

	resp, err := Send(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.Content != "Paris." {
		t.Errorf("Content = %q", resp.Content)
	}
	if len(backend.urls) != 1 || !strings.HasSuffix(backend.urls[0], "/chat/completions") {
		t.Errorf("urls = %v", backend.urls)
	}
}

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *llm.Config
		wantType llm.ErrorType
	}{
		{
			name:     "nil config",
			cfg:      nil,
			wantType: llm.ErrorTypeConfig,
		},
		{
			name: "unknown service",
			cfg: &llm.Config{
				Service:  "aurora",
				Model:    "m",
				Messages: []llm.Message{llm.UserMessage("hi")},
			},
			wantType: llm.ErrorTypeUnsupportedService,
		},
		{
			name: "missing model",
			cfg: &llm.Config{
				Service:  llm.ServiceOpenAI,
				Messages: []llm.Message{llm.UserMessage("hi")},
			},
			wantType: llm.ErrorTypeConfig,
		},
		{
			name: "orphan tool result",
			cfg: &llm.Config{
				Service: llm.ServiceOpenAI,
				Model:   "gpt-4o",
				Messages: []llm.Message{
					llm.UserMessage("hi"),
					llm.ToolResultMessage("call_1", "f", "result"),
				},
			},
			wantType: llm.ErrorTypeFlow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Send(context.Background(), tt.cfg, nil)
			if err == nil {
				t.Fatal("Send() error = nil")
			}
			var llmErr *llm.Error
			if !errors.As(err, &llmErr) {
				t.Fatalf("error type = %T", err)
			}
			if llmErr.Type != tt.wantType {
				t.Errorf("error type = %q, want %q", llmErr.Type, tt.wantType)
			}
		})
	}
}

func TestCallOptionsWin(t *testing.T) {
	backend := &fakeBackend{reply: unaryReply}
	baseTemp := 0.2
	optTemp := 0.9
	optMax := 128
	cfg := &llm.Config{
		Service:     llm.ServiceOpenAI,
		Model:       "gpt-4o",
		Temperature: &baseTemp,
		Messages:    []llm.Message{llm.UserMessage("hi")},
		Transport:   backend.transport(t),
	}

	_, err := Send(context.Background(), cfg, &llm.CallOptions{
		Temperature: &optTemp,
		MaxTokens:   &optMax,
		Tools:       []llm.Tool{{Name: "get_weather"}},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	body := backend.bodies[0]
	if body["temperature"] != 0.9 {
		t.Errorf("temperature = %v, want the per-call override", body["temperature"])
	}
	if body["max_tokens"] != float64(128) {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	if _, ok := body["tools"]; !ok {
		t.Error("per-call tools not sent")
	}

	// The caller's config is untouched.
	if *cfg.Temperature != 0.2 {
		t.Error("input config mutated by option merge")
	}
	if cfg.Tools != nil {
		t.Error("input config gained tools")
	}
}

func TestTransportPrecedence(t *testing.T) {
	perCall := &fakeBackend{reply: unaryReply}
	perConfig := &fakeBackend{reply: unaryReply}
	global := &fakeBackend{reply: unaryReply}

	SetDefaultTransport(global.transport(t))
	defer SetDefaultTransport(nil)

	cfg := &llm.Config{
		Service:   llm.ServiceOpenAI,
		Model:     "gpt-4o",
		Messages:  []llm.Message{llm.UserMessage("hi")},
		Transport: perConfig.transport(t),
	}

	// Per-call option beats the config transport.
	if _, err := Send(context.Background(), cfg, &llm.CallOptions{Transport: perCall.transport(t)}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(perCall.urls) != 1 || len(perConfig.urls) != 0 || len(global.urls) != 0 {
		t.Fatalf("hits = %d/%d/%d, want per-call only", len(perCall.urls), len(perConfig.urls), len(global.urls))
	}

	// Config transport beats the process default.
	if _, err := Send(context.Background(), cfg, nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(perConfig.urls) != 1 || len(global.urls) != 0 {
		t.Fatalf("hits = %d/%d, want per-config only", len(perConfig.urls), len(global.urls))
	}

	// The process default serves configs without their own transport.
	cfg.Transport = nil
	if _, err := Send(context.Background(), cfg, nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(global.urls) != 1 {
		t.Fatalf("global hits = %d, want 1", len(global.urls))
	}
}

func TestAsk(t *testing.T) {
	backend := &fakeBackend{reply: unaryReply}
	cfg := &llm.Config{
		Service:      llm.ServiceOpenAI,
		Model:        "gpt-4o",
		SystemPrompt: "Be brief.",
		Transport:    backend.transport(t),
	}

	resp, err := Ask(context.Background(), cfg, "capital of France?", nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if resp.Content != "Paris." {
		t.Errorf("Content = %q", resp.Content)
	}

	body := backend.bodies[0]
	messages := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %v, want system then user", messages)
	}
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	if first["role"] != "system" || first["content"] != "Be brief." {
		t.Errorf("first message = %v", first)
	}
	if second["role"] != "user" || second["content"] != "capital of France?" {
		t.Errorf("second message = %v", second)
	}
}

func TestStream(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"Paris."},"finish_reason":"stop"}]}`,
		``,
		`data: [DONE]`,
		``,
	}, "\n")
	backend := &fakeBackend{reply: stream}

	cfg := &llm.Config{
		Service:   llm.ServiceOpenAI,
		Model:     "gpt-4o",
		Messages:  []llm.Message{llm.UserMessage("capital of France?")},
		Transport: backend.transport(t),
	}

	sr, err := Stream(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	resp, err := sr.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if resp.Content != "Paris." {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestSendAllServicesRouted(t *testing.T) {
	// Every known service must resolve to an adapter.
	for _, service := range llm.Services {
		if _, ok := adapters[service]; !ok {
			t.Errorf("no adapter for service %q", service)
		}
	}
}
