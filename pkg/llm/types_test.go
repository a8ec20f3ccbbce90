package llm

import "testing"

func TestConfigClone(t *testing.T) {
	temp := 0.5
	cfg := &Config{
		Service:     ServiceOpenAI,
		Model:       "gpt-4o",
		Temperature: &temp,
		Messages:    []Message{UserMessage("hi")},
	}

	clone := cfg.Clone()
	clone.Messages = append(clone.Messages, UserMessage("more"))
	clone.Model = "gpt-4o-mini"

	if len(cfg.Messages) != 1 {
		t.Error("appending to the clone grew the original's messages")
	}
	if cfg.Model != "gpt-4o" {
		t.Error("clone shares scalar fields with the original")
	}
}

func TestWithAppendedAssistant(t *testing.T) {
	history := []Message{UserMessage("weather?")}
	calls := []ToolCall{{ID: "call_1", Name: "get_weather"}}

	out := WithAppendedAssistant(history, "checking", "need the forecast", calls)

	if len(history) != 1 {
		t.Fatal("input slice mutated")
	}
	if len(out) != 2 {
		t.Fatalf("messages = %d, want 2", len(out))
	}
	last := out[1]
	if last.Role != RoleAssistant {
		t.Errorf("role = %q", last.Role)
	}
	if last.Content != "checking" || last.Reasoning != "need the forecast" {
		t.Errorf("appended turn = %+v", last)
	}
	if len(last.ToolCalls) != 1 || last.ToolCalls[0].ID != "call_1" {
		t.Errorf("tool calls = %+v", last.ToolCalls)
	}
}

func TestMessageConstructors(t *testing.T) {
	user := UserMessage("hi")
	if user.Role != RoleUser || user.Content != "hi" {
		t.Errorf("UserMessage() = %+v", user)
	}

	system := SystemMessage("be brief")
	if system.Role != RoleSystem {
		t.Errorf("SystemMessage() role = %q", system.Role)
	}

	result := ToolResultMessage("call_1", "get_weather", "15 degrees")
	if result.Role != RoleToolResult || result.ToolCallID != "call_1" || result.Name != "get_weather" {
		t.Errorf("ToolResultMessage() = %+v", result)
	}
}
