package provider

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/unillm/unillm/pkg/llm"
)

// toolCallBuffer assembles one streamed tool call: the function name from
// the first fragment that carries it, and the arguments string grown by
// concatenating successive fragments.
type toolCallBuffer struct {
	id   string
	name string
	args strings.Builder
}

// ToolCallAccumulator buffers streamed tool-call fragments until their
// arguments parse as complete JSON.
//
// Buffers are keyed by the call's stable id when present, otherwise by a
// synthetic key derived from the vendor's fragment index. Each index
// remembers the key of the buffer it last fed, so id-less continuation
// fragments land in the same buffer regardless of whether the opening
// fragment carried the id (the usual wire shape) or the id arrived late
// (in which case the buffer migrates under it, keeping everything
// accumulated so far). Emission order follows first appearance.
type ToolCallAccumulator struct {
	byKey     map[string]*toolCallBuffer
	byIndex   map[int]string
	order     []string
	finalized bool
}

// NewToolCallAccumulator returns an empty accumulator.
func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{
		byKey:   map[string]*toolCallBuffer{},
		byIndex: map[int]string{},
	}
}

func indexKey(index int) string {
	return fmt.Sprintf("#%d", index)
}

// Add records one fragment: the vendor's index, the call id and function
// name when present, and a (possibly empty) arguments fragment.
func (a *ToolCallAccumulator) Add(index int, id, name, args string) {
	if a.finalized {
		return
	}

	key, seen := a.byIndex[index]
	if !seen {
		key = indexKey(index)
	}
	buf := a.byKey[key]

	if id != "" && id != key {
		switch {
		case a.byKey[id] != nil:
			buf = a.byKey[id]
		case buf != nil && buf.id == "":
			// Late id for an index-keyed buffer: migrate, keeping the
			// fragments and the original order slot.
			delete(a.byKey, key)
			buf.id = id
			a.byKey[id] = buf
			for i, k := range a.order {
				if k == key {
					a.order[i] = id
				}
			}
		default:
			// A different call took over this index slot.
			buf = nil
		}
		key = id
	}

	if buf == nil {
		buf = &toolCallBuffer{id: id}
		a.byKey[key] = buf
		a.order = append(a.order, key)
	}
	a.byIndex[index] = key
	if buf.id == "" {
		buf.id = id
	}
	if buf.name == "" {
		buf.name = name
	}
	buf.args.WriteString(args)
}

// Pending reports whether any fragments are buffered and not yet
// finalized.
func (a *ToolCallAccumulator) Pending() bool {
	return !a.finalized && len(a.order) > 0
}

// Finalize parses every buffered call's arguments and returns the
// completed ToolCalls in first-appearance order. Calls whose arguments do
// not parse as JSON are dropped with a log entry; they never surface.
// Finalize is effective once: later calls return nil.
func (a *ToolCallAccumulator) Finalize() []llm.ToolCall {
	if a.finalized {
		return nil
	}
	a.finalized = true

	var calls []llm.ToolCall
	for _, key := range a.order {
		buf := a.byKey[key]
		args := buf.args.String()
		if args == "" {
			args = "{}"
		}
		var input map[string]any
		if err := json.Unmarshal([]byte(args), &input); err != nil {
			slog.Warn("dropping tool call with incomplete arguments",
				"id", buf.id,
				"name", buf.name,
				"error", err.Error(),
			)
			continue
		}
		calls = append(calls, llm.ToolCall{
			ID:    buf.id,
			Name:  buf.name,
			Input: input,
		})
	}
	return calls
}
