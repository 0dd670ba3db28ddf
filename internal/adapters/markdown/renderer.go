package markdown

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"

	"cognitext/internal/ports"
)

// Renderer implements ports.MarkdownRenderer with glamour. Term renderers
// are cached per width since building one parses the whole style sheet.
type Renderer struct {
	mu        sync.Mutex
	style     string
	renderers map[int]*glamour.TermRenderer
}

// Ensure Renderer implements MarkdownRenderer
var _ ports.MarkdownRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer for the given color theme ("light" or
// "dark")
func NewRenderer(theme string) *Renderer {
	return &Renderer{
		style:     styleFor(theme),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// SetTheme switches the style, dropping cached renderers
func (r *Renderer) SetTheme(theme string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	style := styleFor(theme)
	if style == r.style {
		return
	}
	r.style = style
	r.renderers = make(map[int]*glamour.TermRenderer)
}

// Render renders source wrapped to width columns
func (r *Renderer) Render(source string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	r.mu.Lock()
	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			r.mu.Unlock()
			return "", fmt.Errorf("failed to create renderer: %w", err)
		}
		r.renderers[width] = tr
	}
	r.mu.Unlock()

	return tr.Render(source)
}

func styleFor(theme string) string {
	if theme == "dark" {
		return "dark"
	}
	return "light"
}
