package commands

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// FileMatch is a workspace file ranked against a quick-open query
type FileMatch struct {
	Path    string
	RelPath string
	Score   int
}

// QuickOpenCommand finds notes by fuzzy matching their names
type QuickOpenCommand struct {
	repo  ports.WorkspaceRepository
	Query string
	Limit int
}

// NewQuickOpenCommand creates a new QuickOpenCommand
func NewQuickOpenCommand(repo ports.WorkspaceRepository, query string, limit int) *QuickOpenCommand {
	return &QuickOpenCommand{
		repo:  repo,
		Query: query,
		Limit: limit,
	}
}

// Execute runs the quick open command and returns scored, sorted matches
func (c *QuickOpenCommand) Execute(ctx context.Context) ([]FileMatch, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	paths, err := c.repo.ListMarkdown()
	if err != nil {
		return nil, err
	}

	matches := FuzzySort(c.repo.Root(), paths, c.Query)
	if c.Limit > 0 && len(matches) > c.Limit {
		matches = matches[:c.Limit]
	}
	return matches, nil
}

// SearchCommand runs a full-text query against the search index
type SearchCommand struct {
	index ports.SearchIndex
	Query string
	Limit int
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(index ports.SearchIndex, query string, limit int) *SearchCommand {
	return &SearchCommand{
		index: index,
		Query: query,
		Limit: limit,
	}
}

// Execute runs the search command
func (c *SearchCommand) Execute(ctx context.Context) ([]domain.SearchResult, error) {
	if strings.TrimSpace(c.Query) == "" {
		return nil, nil
	}
	return c.index.Search(c.Query, c.Limit)
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '.' || target[i-1] == '-' || target[i-1] == '/') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort ranks file paths by how well their name or relative path
// matches the query. Paths that do not match are dropped.
func FuzzySort(root string, paths []string, query string) []FileMatch {
	scored := make([]FileMatch, 0, len(paths))

	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)

		s1 := FuzzyScore(domain.FileNameWithoutExtension(p), query)
		s2 := FuzzyScore(rel, query)

		best := max(s1, s2)

		if best > 0 {
			scored = append(scored, FileMatch{
				Path:    p,
				RelPath: rel,
				Score:   best,
			})
		}
	}

	// Sort by score descending, then by path for stable output
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].RelPath < scored[j].RelPath
	})

	return scored
}
