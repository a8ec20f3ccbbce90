// Package debug gates diagnostic logging by category.
//
// UNILLM_DEBUG selects the categories to emit (comma-separated from
// providers, transport, streaming, client, config, or all) and
// UNILLM_LOG_LEVEL sets the slog threshold (ERROR, WARN, INFO, DEBUG,
// TRACE). Both can also be passed to Init; the environment wins.
//
//	debug.Log("providers", "request", "method", "POST", "url", url)
//	if debug.Enabled("providers") { /* expensive formatting */ }
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug; at this level the library logs
// full request and response bodies without truncation.
const LevelTrace = slog.LevelDebug - 4

// categories is written by Init and read everywhere after; callers are
// expected to Init before spawning goroutines that log.
var categories map[string]bool

func init() {
	categories = parseCategories(os.Getenv("UNILLM_DEBUG"))
}

// Init sets the category filter and installs a slog handler at the
// requested level. Environment values override the arguments.
func Init(configCategories string, configLevel string) {
	cats := os.Getenv("UNILLM_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv("UNILLM_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}
	if level == "" {
		level = "INFO"
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// Enabled reports whether the category (or "all") is selected.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug-level message when the category is selected.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits at LevelTrace when the category is selected; the handler
// drops it unless the level threshold is TRACE.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(nil, LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether both the category and the TRACE level
// are active. Guards the cost of serializing full bodies.
func TraceIsEnabled(category string) bool {
	if !Enabled(category) {
		return false
	}
	return slog.Default().Enabled(nil, LevelTrace)
}

// Raw writes text to stderr verbatim, bypassing slog, so wire payloads
// stay valid JSON. Emitted only under TraceIsEnabled.
func Raw(category string, text string) {
	if !TraceIsEnabled(category) {
		return
	}
	fmt.Fprintln(os.Stderr, text)
}

// ParseLevel maps a level name to its slog.Level; unknown names fall
// back to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories lists the selected categories in no particular order.
func Categories() []string {
	var result []string
	for k := range categories {
		result = append(result, k)
	}
	return result
}

// Truncate caps s at maxLen bytes, marking the cut with an ellipsis.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	if s == "" {
		return m
	}
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
