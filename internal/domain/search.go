package domain

import "time"

// SearchDocument is a markdown file as stored in the full-text index
type SearchDocument struct {
	ID      string // Absolute path
	Title   string
	Content string
	Path    string
	ModTime time.Time
}

// SearchResult represents a matched document
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
	Score   int
}

// SyncStats summarises an index synchronisation pass
type SyncStats struct {
	Added    int
	Updated  int
	Removed  int
	Duration time.Duration
}
