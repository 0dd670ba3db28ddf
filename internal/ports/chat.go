package ports

import (
	"context"

	"cognitext/internal/domain"
)

// ChatProvider streams completions from a language model.
// Cancelling ctx aborts the request; onChunk is called for every piece
// received, on the calling goroutine.
type ChatProvider interface {
	Stream(ctx context.Context, messages []domain.ChatMessage, onChunk func(domain.ChatChunk)) error

	// IsAvailable returns true if the provider is configured and reachable
	IsAvailable() bool
}
