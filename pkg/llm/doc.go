// Package llm defines the unified conversation model shared by every
// provider adapter: messages, tools, tool calls, usage accounting, call
// configuration, and the unary and streaming response shapes.
//
// The types here are provider-agnostic. Each adapter under pkg/provider
// translates them to and from its vendor's wire format; callers never see
// a vendor-specific field.
package llm
