package commands

import (
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// reindex keeps the search index in step with a file change. Index
// failures never fail the file operation.
func reindex(index ports.SearchIndex, removed, added string) {
	if index == nil {
		return
	}
	if removed != "" && domain.IsMarkdown(removed) {
		_ = index.Remove(removed)
	}
	if added != "" && domain.IsMarkdown(added) {
		_ = index.Reindex(added)
	}
}
