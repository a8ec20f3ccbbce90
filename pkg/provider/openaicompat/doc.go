// Package openaicompat implements the Chat Completions wire format shared
// by OpenAI, Groq, DeepSeek, and xAI. The vendor packages configure a
// Client with their base URL and model-conditional tuning; the encoder,
// unary decoder, and streaming decoder live here once.
package openaicompat
