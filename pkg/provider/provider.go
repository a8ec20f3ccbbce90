package provider

import (
	"context"

	"github.com/unillm/unillm/pkg/llm"
)

// Adapter translates between the unified model and one vendor's wire
// format. Implementations must be safe for concurrent use; each call is
// independent and carries its own config.
type Adapter interface {
	// Service returns the discriminant this adapter serves.
	Service() llm.Service

	// Call performs non-streaming inference.
	Call(ctx context.Context, cfg *llm.Config) (*llm.Response, error)

	// Stream performs streaming inference. The returned handle's channel
	// is closed by the adapter when the stream completes or errors.
	Stream(ctx context.Context, cfg *llm.Config) (*llm.StreamingResponse, error)
}
