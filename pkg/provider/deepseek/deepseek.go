// Package deepseek adapts the unified model to the DeepSeek API.
// Reasoning arrives as reasoning_content without any request knob, so no
// tuning is needed beyond the shared encoder.
package deepseek

import (
	"github.com/unillm/unillm/pkg/llm"
	"github.com/unillm/unillm/pkg/provider/openaicompat"
)

// DefaultBaseURL is the DeepSeek API endpoint.
const DefaultBaseURL = "https://api.deepseek.com/v1"

// New creates the DeepSeek adapter.
func New() *openaicompat.Client {
	return openaicompat.New(openaicompat.Options{
		Service:        llm.ServiceDeepSeek,
		DefaultBaseURL: DefaultBaseURL,
	})
}
