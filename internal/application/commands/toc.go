package commands

import (
	"context"
	"fmt"

	"cognitext/internal/application"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// TOCResult contains a document's table of contents
type TOCResult struct {
	Path  string
	Roots []*domain.TOCNode
	Lines []domain.TOCLine
}

// TOCCommand builds the table of contents of a note
type TOCCommand struct {
	store  ports.DocumentStore
	parser ports.MarkdownParser
	Path   string
}

// NewTOCCommand creates a new TOCCommand
func NewTOCCommand(store ports.DocumentStore, parser ports.MarkdownParser, path string) *TOCCommand {
	return &TOCCommand{
		store:  store,
		parser: parser,
		Path:   path,
	}
}

// Execute runs the toc command
func (c *TOCCommand) Execute(ctx context.Context) (*TOCResult, error) {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return nil, err
	}

	content, err := c.store.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
	}

	roots := domain.BuildTOCTree(c.parser.Headings(content))
	return &TOCResult{
		Path:  c.Path,
		Roots: roots,
		Lines: domain.FlattenTOC(roots),
	}, nil
}
