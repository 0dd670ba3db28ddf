package ports

import (
	"context"

	"cognitext/internal/domain"
)

// SearchIndex provides full-text search over the workspace markdown files
type SearchIndex interface {
	// Lifecycle
	Open(root string) error
	Close() error

	// IndexDirectory rebuilds the index from every markdown file below root
	IndexDirectory(ctx context.Context) (*domain.SyncStats, error)
	// SyncIncremental re-reads files whose mtime changed since the last sync
	SyncIncremental(ctx context.Context) (*domain.SyncStats, error)
	NeedsFullRebuild() bool

	Search(query string, limit int) ([]domain.SearchResult, error)

	// Single document updates
	Reindex(path string) error
	Remove(path string) error
}
