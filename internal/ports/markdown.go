package ports

import "cognitext/internal/domain"

// MarkdownParser extracts structure from markdown sources
type MarkdownParser interface {
	Headings(source string) []domain.HeadingEntry
}

// MarkdownRenderer renders markdown for terminal display
type MarkdownRenderer interface {
	Render(source string, width int) (string, error)
}
