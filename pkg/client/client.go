package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unillm/unillm/pkg/debug"
	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/observability"
	"github.com/unillm/unillm/pkg/provider"
	"github.com/unillm/unillm/pkg/provider/anthropic"
	"github.com/unillm/unillm/pkg/provider/deepseek"
	"github.com/unillm/unillm/pkg/provider/google"
	"github.com/unillm/unillm/pkg/provider/groq"
	"github.com/unillm/unillm/pkg/provider/ollama"
	"github.com/unillm/unillm/pkg/provider/openai"
	"github.com/unillm/unillm/pkg/provider/xai"
	"github.com/unillm/unillm/pkg/transport"
)

// adapters maps each service discriminant to its adapter. Adapters are
// stateless, so the shared instances are safe for concurrent use.
var adapters = map[llm.Service]provider.Adapter{
	llm.ServiceOpenAI:    openai.New(),
	llm.ServiceGroq:      groq.New(),
	llm.ServiceDeepSeek:  deepseek.New(),
	llm.ServiceXAI:       xai.New(),
	llm.ServiceAnthropic: anthropic.New(),
	llm.ServiceGoogle:    google.New(),
	llm.ServiceOllama:    ollama.New(),
}

// Send performs a non-streaming call: validate, merge options, dispatch.
func Send(ctx context.Context, cfg *llm.Config, opts *llm.CallOptions) (*llm.Response, error) {
	merged, adapter, err := prepare(cfg, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logCall("send", merged)
	resp, callErr := adapter.Call(ctx, merged)
	observability.RecordCall(string(merged.Service), merged.Model, outcome(callErr), start)
	if callErr != nil {
		return nil, callErr
	}
	observability.RecordTokens(string(merged.Service), merged.Model,
		resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}

// Stream performs a streaming call. Metrics for the stream are recorded
// when the handle's channel closes.
func Stream(ctx context.Context, cfg *llm.Config, opts *llm.CallOptions) (*llm.StreamingResponse, error) {
	merged, adapter, err := prepare(cfg, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logCall("stream", merged)
	sr, streamErr := adapter.Stream(ctx, merged)
	if streamErr != nil {
		observability.RecordCall(string(merged.Service), merged.Model, outcome(streamErr), start)
		return nil, streamErr
	}
	observability.StreamsActive.Inc()
	observability.RecordCall(string(merged.Service), merged.Model, "ok", start)
	go func() {
		// Wait for the caller to finish consuming; Collect then returns
		// the cached terminal payload without competing for chunks.
		<-sr.Done()
		observability.StreamsActive.Dec()
		if resp, err := sr.Collect(); err == nil {
			observability.RecordTokens(string(merged.Service), merged.Model,
				resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}()
	return sr, nil
}

// Ask is the one-shot convenience: it builds a message list from the
// question (plus the config's system prompt, when set) and sends it.
func Ask(ctx context.Context, cfg *llm.Config, question string, opts *llm.CallOptions) (*llm.Response, error) {
	return Send(ctx, withQuestion(cfg, question), opts)
}

// StreamAsk is the streaming variant of Ask.
func StreamAsk(ctx context.Context, cfg *llm.Config, question string, opts *llm.CallOptions) (*llm.StreamingResponse, error) {
	return Stream(ctx, withQuestion(cfg, question), opts)
}

// SetDefaultTransport installs the process-wide default transport.
func SetDefaultTransport(t transport.Transport) {
	transport.SetDefault(t)
}

// GetDefaultTransport returns the process-wide default transport.
func GetDefaultTransport() transport.Transport {
	return transport.Default()
}

// prepare merges options over the config, validates the result, and
// resolves the adapter.
func prepare(cfg *llm.Config, opts *llm.CallOptions) (*llm.Config, provider.Adapter, error) {
	if cfg == nil {
		return nil, nil, llm.NewConfigError("", "config is required")
	}

	merged := cfg.Clone()
	if opts != nil {
		if opts.Tools != nil {
			merged.Tools = opts.Tools
		}
		if opts.Temperature != nil {
			merged.Temperature = opts.Temperature
		}
		if opts.MaxTokens != nil {
			merged.MaxTokens = opts.MaxTokens
		}
		if opts.Transport != nil {
			merged.Transport = opts.Transport
		}
	}
	// Config-level and global fallbacks resolve here so adapters see one
	// definitive transport.
	merged.Transport = transport.Resolve(merged.Transport, cfg.Transport)

	if err := validate(merged); err != nil {
		return nil, nil, err
	}

	adapter, ok := adapters[merged.Service]
	if !ok {
		return nil, nil, llm.NewUnsupportedServiceError(merged.Service)
	}
	return merged, adapter, nil
}

// validate runs the config, tool-result, and (for the OpenAI family)
// conversation-flow validators.
func validate(cfg *llm.Config) error {
	if err := llm.ValidateConfig(cfg); err != nil {
		return err
	}
	for i := range cfg.Messages {
		if err := llm.ValidateToolResult(cfg.Service, &cfg.Messages[i], i); err != nil {
			return err
		}
	}
	if llm.IsOpenAICompatible(cfg.Service) {
		if err := llm.ValidateFlow(cfg.Messages); err != nil {
			return err
		}
	}
	return nil
}

// withQuestion builds the ask-variant message list: optional system
// prompt, then the question as a user turn. Any messages already on the
// config are kept in front of the question.
func withQuestion(cfg *llm.Config, question string) *llm.Config {
	if cfg == nil {
		return cfg
	}
	merged := cfg.Clone()
	var messages []llm.Message
	if merged.SystemPrompt != "" {
		messages = append(messages, llm.SystemMessage(merged.SystemPrompt))
		merged.SystemPrompt = ""
	}
	messages = append(messages, merged.Messages...)
	messages = append(messages, llm.UserMessage(question))
	merged.Messages = messages
	return merged
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func logCall(op string, cfg *llm.Config) {
	debug.Log("client", "preparing call", "op", op, "service", string(cfg.Service))
	slog.Debug("dispatching provider call",
		"op", op,
		"request_id", uuid.NewString(),
		"service", string(cfg.Service),
		"model", cfg.Model,
		"messages", len(cfg.Messages),
		"tools", len(cfg.Tools),
	)
}
