// Package sse reads the two streaming framings used by chat-completion
// vendors: Server-Sent Events (the data:-prefixed framing used by the
// OpenAI family, Anthropic, and Google) and newline-delimited JSON (used
// by Ollama).
package sse
