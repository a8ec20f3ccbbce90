// Command unillm sends a single prompt to a chat-completion provider.
//
// Usage:
//
//	unillm -service openai -model gpt-4o "What is the capital of France?"
//
// Credentials come from flags, a config file (-config), or the
// UNILLM_{SERVICE}_API_KEY / _BASE_URL environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/unillm/unillm/pkg/client"
	"github.com/unillm/unillm/pkg/config"
	"github.com/unillm/unillm/pkg/debug"
	"github.com/unillm/unillm/pkg/llm"
)

func main() {
	if err := run(); err != nil {
		slog.Error("request failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		service    = flag.String("service", "openai", "provider: "+serviceList())
		model      = flag.String("model", "", "model name (required)")
		system     = flag.String("system", "", "system prompt")
		apiKey     = flag.String("api-key", "", "API key (overrides config and env)")
		baseURL    = flag.String("base-url", "", "API base URL (overrides the vendor default)")
		configPath = flag.String("config", "", "YAML config file with per-service credentials")
		stream     = flag.Bool("stream", false, "stream the response token by token")
		reasoning  = flag.Bool("reasoning", false, "print the reasoning trace when the model returns one")
	)
	flag.Parse()

	debug.Init("", "")

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		return fmt.Errorf("no prompt given")
	}
	if *model == "" {
		return fmt.Errorf("-model is required")
	}

	cfg := &llm.Config{
		Service:      llm.Service(*service),
		Model:        *model,
		APIKey:       *apiKey,
		BaseURL:      *baseURL,
		SystemPrompt: *system,
	}

	creds, err := loadCredentials(*configPath)
	if err != nil {
		return err
	}
	creds.Apply(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *stream {
		return streamAnswer(ctx, cfg, question, *reasoning)
	}
	return printAnswer(ctx, cfg, question, *reasoning)
}

// loadCredentials reads the config file when one is given, falling back
// to environment variables alone.
func loadCredentials(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv(), nil
}

func printAnswer(ctx context.Context, cfg *llm.Config, question string, withReasoning bool) error {
	resp, err := client.Ask(ctx, cfg, question, nil)
	if err != nil {
		return err
	}
	if withReasoning && resp.Reasoning != "" {
		fmt.Fprintf(os.Stderr, "--- reasoning ---\n%s\n--- answer ---\n", resp.Reasoning)
	}
	fmt.Println(resp.Content)
	for _, call := range resp.ToolCalls {
		fmt.Fprintf(os.Stderr, "tool call: %s (%s)\n", call.Name, call.ID)
	}
	return nil
}

func streamAnswer(ctx context.Context, cfg *llm.Config, question string, withReasoning bool) error {
	sr, err := client.StreamAsk(ctx, cfg, question, nil)
	if err != nil {
		return err
	}
	defer sr.Close()
	for chunk := range sr.Chunks() {
		switch {
		case chunk.Err != nil:
			fmt.Println()
			return chunk.Err
		case chunk.Type == llm.ChunkContent:
			fmt.Print(chunk.Delta)
		case chunk.Type == llm.ChunkReasoning && withReasoning:
			fmt.Fprint(os.Stderr, chunk.Delta)
		case chunk.Type == llm.ChunkToolCall:
			fmt.Fprintf(os.Stderr, "\ntool call: %s (%s)\n", chunk.ToolCall.Name, chunk.ToolCall.ID)
		}
	}
	fmt.Println()
	return nil
}

func serviceList() string {
	names := make([]string, len(llm.Services))
	for i, s := range llm.Services {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
