package llm

import (
	"testing"
)

func float64Ptr(f float64) *float64 { return &f }

// validConfig returns a minimal valid Config.
func validConfig() *Config {
	return &Config{
		Service:  ServiceOpenAI,
		Model:    "gpt-4o",
		Messages: []Message{UserMessage("hello")},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		wantErr   bool
		wantType  ErrorType
		wantParam string
	}{
		{
			name:    "valid config accepted",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:     "unknown service rejected",
			modify:   func(c *Config) { c.Service = "aurora" },
			wantErr:  true,
			wantType: ErrorTypeUnsupportedService,
		},
		{
			name:      "missing model rejected",
			modify:    func(c *Config) { c.Model = "" },
			wantErr:   true,
			wantType:  ErrorTypeConfig,
			wantParam: "model",
		},
		{
			name:      "empty messages rejected",
			modify:    func(c *Config) { c.Messages = nil },
			wantErr:   true,
			wantType:  ErrorTypeConfig,
			wantParam: "messages",
		},
		{
			name: "message without role rejected",
			modify: func(c *Config) {
				c.Messages = []Message{{Content: "hi"}}
			},
			wantErr:   true,
			wantType:  ErrorTypeConfig,
			wantParam: "messages",
		},
		{
			name: "message without payload rejected",
			modify: func(c *Config) {
				c.Messages = []Message{{Role: RoleAssistant}}
			},
			wantErr:   true,
			wantType:  ErrorTypeConfig,
			wantParam: "messages",
		},
		{
			name: "tool_result with empty content accepted",
			modify: func(c *Config) {
				c.Messages = []Message{{Role: RoleToolResult, ToolCallID: "call_1"}}
			},
			wantErr: false,
		},
		{
			name: "assistant with only tool_calls accepted",
			modify: func(c *Config) {
				c.Messages = []Message{{
					Role:      RoleAssistant,
					ToolCalls: []ToolCall{{ID: "call_1", Name: "f"}},
				}}
			},
			wantErr: false,
		},
		{
			name: "message with parts only accepted",
			modify: func(c *Config) {
				c.Messages = []Message{{
					Role:  RoleUser,
					Parts: []ContentPart{{Type: PartImage, URL: "https://example.com/a.png"}},
				}}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if tt.wantType != "" && err.Type != tt.wantType {
				t.Errorf("error type = %s, want %s", err.Type, tt.wantType)
			}
			if tt.wantParam != "" && err.Param != tt.wantParam {
				t.Errorf("error param = %s, want %s", err.Param, tt.wantParam)
			}
		})
	}
}

func TestValidateToolResult(t *testing.T) {
	tests := []struct {
		name    string
		service Service
		msg     Message
		wantErr bool
	}{
		{
			name:    "openai requires tool_call_id",
			service: ServiceOpenAI,
			msg:     Message{Role: RoleToolResult, Content: "72F"},
			wantErr: true,
		},
		{
			name:    "openai accepts id",
			service: ServiceOpenAI,
			msg:     Message{Role: RoleToolResult, ToolCallID: "call_1", Content: "72F"},
			wantErr: false,
		},
		{
			name:    "anthropic requires tool_call_id",
			service: ServiceAnthropic,
			msg:     Message{Role: RoleToolResult, Name: "get_weather", Content: "72F"},
			wantErr: true,
		},
		{
			name:    "google requires name or id",
			service: ServiceGoogle,
			msg:     Message{Role: RoleToolResult, Content: "72F"},
			wantErr: true,
		},
		{
			name:    "google accepts name",
			service: ServiceGoogle,
			msg:     Message{Role: RoleToolResult, Name: "get_weather", Content: "72F"},
			wantErr: false,
		},
		{
			name:    "google accepts synthesized id",
			service: ServiceGoogle,
			msg:     Message{Role: RoleToolResult, ToolCallID: "google_get_weather_1700000000_1", Content: "72F"},
			wantErr: false,
		},
		{
			name:    "ollama needs nothing",
			service: ServiceOllama,
			msg:     Message{Role: RoleToolResult, Content: "72F"},
			wantErr: false,
		},
		{
			name:    "non tool_result messages pass",
			service: ServiceOpenAI,
			msg:     UserMessage("hello"),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToolResult(tt.service, &tt.msg, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToolResult() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Type != ErrorTypeToolResult {
				t.Errorf("error type = %s, want %s", err.Type, ErrorTypeToolResult)
			}
		})
	}
}

func TestValidateFlow(t *testing.T) {
	call := func(id string) ToolCall {
		return ToolCall{ID: id, Name: "get_weather", Input: map[string]any{}}
	}

	tests := []struct {
		name     string
		messages []Message
		wantErr  bool
		wantPos  int
	}{
		{
			name: "multi-round tool pattern accepted",
			messages: []Message{
				UserMessage("weather in SF and LA?"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1"), call("c2")}},
				ToolResultMessage("c1", "get_weather", "72F"),
				ToolResultMessage("c2", "get_weather", "75F"),
				AssistantMessage("SF is 72F, LA is 75F."),
			},
			wantErr: false,
		},
		{
			name: "orphan tool_result rejected at position 2",
			messages: []Message{
				UserMessage("hi"),
				AssistantMessage("hi"),
				ToolResultMessage("x", "", "..."),
			},
			wantErr: true,
			wantPos: 2,
		},
		{
			name: "unknown id rejected",
			messages: []Message{
				UserMessage("hi"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1")}},
				ToolResultMessage("c9", "", "..."),
			},
			wantErr: true,
			wantPos: 2,
		},
		{
			name: "id-less result binds single pending call",
			messages: []Message{
				UserMessage("hi"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1")}},
				{Role: RoleToolResult, Content: "72F"},
			},
			wantErr: false,
		},
		{
			name: "id-less result ambiguous with two pending",
			messages: []Message{
				UserMessage("hi"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1"), call("c2")}},
				{Role: RoleToolResult, Content: "72F"},
			},
			wantErr: true,
			wantPos: 2,
		},
		{
			name: "user turn between call and result keeps pending",
			messages: []Message{
				UserMessage("hi"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1")}},
				UserMessage("still there?"),
				ToolResultMessage("c1", "", "72F"),
			},
			wantErr: false,
		},
		{
			name: "assistant text clears pending",
			messages: []Message{
				UserMessage("hi"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1")}},
				AssistantMessage("never mind"),
				ToolResultMessage("c1", "", "72F"),
			},
			wantErr: true,
			wantPos: 3,
		},
		{
			name: "new tool_calls replace pending",
			messages: []Message{
				UserMessage("hi"),
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1")}},
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c2")}},
				ToolResultMessage("c1", "", "72F"),
			},
			wantErr: true,
			wantPos: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFlow(tt.messages)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFlow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if err.Type != ErrorTypeFlow {
					t.Errorf("error type = %s, want %s", err.Type, ErrorTypeFlow)
				}
				if err.Position != tt.wantPos {
					t.Errorf("error position = %d, want %d", err.Position, tt.wantPos)
				}
			}
		})
	}
}

func TestDeriveCapabilities(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		reasoning string
		toolCalls []ToolCall
		want      Capabilities
	}{
		{
			name:    "text only",
			content: "hello",
			want:    Capabilities{HasText: true},
		},
		{
			name:    "whitespace content is not text",
			content: "  \n\t ",
			want:    Capabilities{},
		},
		{
			name:      "all three",
			content:   "hello",
			reasoning: "thinking",
			toolCalls: []ToolCall{{ID: "c1"}},
			want:      Capabilities{HasText: true, HasReasoning: true, HasToolCalls: true},
		},
		{
			name:      "tool calls only",
			toolCalls: []ToolCall{{ID: "c1"}},
			want:      Capabilities{HasToolCalls: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveCapabilities(tt.content, tt.reasoning, tt.toolCalls)
			if got != tt.want {
				t.Errorf("DeriveCapabilities() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
