package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/application/commands"
	"cognitext/internal/ports"
)

// SearchMode selects what the search view looks through
type SearchMode int

const (
	SearchFullText SearchMode = iota // Note content through the index
	SearchFiles                      // Note names, fuzzy matched
)

const searchLimit = 50

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Copy   key.Binding
	Switch key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy path"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "content/names"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// searchItem is one row of the result list
type searchItem struct {
	Path    string
	RelPath string
	Title   string
	Snippet string
}

// SearchModel is the model for full-text search and quick open
type SearchModel struct {
	ViewState
	repo      ports.WorkspaceRepository
	index     ports.SearchIndex
	mode      SearchMode
	input     textinput.Model
	results   []searchItem
	paginator *Paginator
}

// NewSearchModel creates a new search view model. Without an index only
// file names can be searched.
func NewSearchModel(repo ports.WorkspaceRepository, index ports.SearchIndex) *SearchModel {
	input := textinput.New()
	input.Focus()

	m := &SearchModel{
		repo:      repo,
		index:     index,
		input:     input,
		paginator: NewPaginator(10),
	}
	m.SetMode(SearchFullText)
	return m
}

// SetMode switches between content and name search
func (m *SearchModel) SetMode(mode SearchMode) {
	if mode == SearchFullText && m.index == nil {
		mode = SearchFiles
	}
	m.mode = mode
	if mode == SearchFiles {
		m.input.Placeholder = "Go to note..."
	} else {
		m.input.Placeholder = "Search notes..."
	}
}

// Mode returns the current search mode
func (m *SearchModel) Mode() SearchMode {
	return m.mode
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.paginator.Reset()
	m.ClearMessage()
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultsMsg:
		// Drop answers to queries the user already typed past
		if msg.query != m.input.Value() || msg.mode != m.mode {
			return m, nil
		}
		if msg.err != nil {
			m.SetError(msg.err)
		}
		m.results = msg.results
		m.paginator.Reset()
		m.paginator.SetTotal(len(m.results))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, switchTo(SwitchToBrowserMsg{})

		case key.Matches(msg, SearchKeys.Up):
			m.paginator.CursorUp()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.paginator.CursorDown()
			return m, nil

		case key.Matches(msg, SearchKeys.Switch):
			if m.mode == SearchFiles {
				m.SetMode(SearchFullText)
			} else {
				m.SetMode(SearchFiles)
			}
			m.results = nil
			m.paginator.Reset()
			return m, m.search(m.input.Value())

		case key.Matches(msg, SearchKeys.Select):
			if item, ok := m.selected(); ok {
				return m, switchTo(OpenDocumentMsg{Path: item.Path})
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Copy):
			if item, ok := m.selected(); ok {
				if err := clipboard.WriteAll(item.RelPath); err != nil {
					m.SetError(fmt.Errorf("failed to copy: %w", err))
				} else {
					m.SetMessage("Copied "+item.RelPath, false)
				}
			}
			return m, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if query == prev {
		return m, cmd
	}
	m.ClearMessage()
	if len(strings.TrimSpace(query)) < 2 {
		m.results = nil
		m.paginator.Reset()
		return m, cmd
	}
	return m, tea.Batch(cmd, m.search(query))
}

func (m *SearchModel) selected() (searchItem, bool) {
	cursor := m.paginator.Cursor()
	if cursor >= 0 && cursor < len(m.results) {
		return m.results[cursor], true
	}
	return searchItem{}, false
}

func (m *SearchModel) search(query string) tea.Cmd {
	if len(strings.TrimSpace(query)) < 2 {
		return nil
	}
	mode := m.mode
	return func() tea.Msg {
		items, err := m.run(mode, query)
		return searchResultsMsg{query: query, mode: mode, results: items, err: err}
	}
}

func (m *SearchModel) run(mode SearchMode, query string) ([]searchItem, error) {
	ctx := context.Background()

	if mode == SearchFiles {
		matches, err := commands.NewQuickOpenCommand(m.repo, query, searchLimit).Execute(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]searchItem, len(matches))
		for i, match := range matches {
			items[i] = searchItem{Path: match.Path, RelPath: match.RelPath, Title: match.RelPath}
		}
		return items, nil
	}

	results, err := commands.NewSearchCommand(m.index, query, searchLimit).Execute(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]searchItem, len(results))
	for i, r := range results {
		rel, err := filepath.Rel(m.repo.Root(), r.Path)
		if err != nil {
			rel = r.Path
		}
		items[i] = searchItem{Path: r.Path, RelPath: filepath.ToSlash(rel), Title: r.Title, Snippet: r.Snippet}
	}
	return items, nil
}

type searchResultsMsg struct {
	query   string
	mode    SearchMode
	results []searchItem
	err     error
}

// View renders the search view
func (m *SearchModel) View() string {
	title := "Search"
	if m.mode == SearchFiles {
		title = "Quick Open"
	}

	v := NewViewBuilder().
		Title(title).
		Line(styles.InputFocused.Render(m.input.View())).
		BlankLine()

	query := strings.TrimSpace(m.input.Value())
	switch {
	case len(m.results) > 0:
		v.Subtitle(fmt.Sprintf("%d results", len(m.results)))
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderResult(m.results[i], i == m.paginator.Cursor()))
		}
		if end < len(m.results) {
			v.Muted(fmt.Sprintf("... and %d more", len(m.results)-end))
		}
	case len(query) >= 2:
		v.Muted("No results found")
	default:
		v.Muted("Type at least 2 characters to search")
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Copy, SearchKeys.Switch, SearchKeys.Cancel).
		String()
}

func (m *SearchModel) renderResult(item searchItem, selected bool) string {
	text := item.Title
	if item.Title != item.RelPath {
		text = item.Title + "  " + RenderMuted(item.RelPath)
	}
	if selected {
		text = styles.NodeSelected.Render(item.Title) + "  " + RenderMuted(item.RelPath)
	}
	if item.Snippet == "" {
		return text
	}
	return text + "\n    " + HighlightSnippet(item.Snippet)
}

// HighlightSnippet styles the [marked] terms of an index snippet
func HighlightSnippet(snippet string) string {
	var b strings.Builder
	for {
		open := strings.Index(snippet, "[")
		if open < 0 {
			break
		}
		end := strings.Index(snippet[open:], "]")
		if end < 0 {
			break
		}
		end += open
		b.WriteString(RenderMuted(snippet[:open]))
		b.WriteString(styles.SearchMatch.Render(snippet[open+1 : end]))
		snippet = snippet[end+1:]
	}
	b.WriteString(RenderMuted(snippet))
	return strings.ReplaceAll(b.String(), "\n", " ")
}

// SetSize updates the view dimensions
func (m *SearchModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// Each result takes two lines with a snippet
	m.paginator.SetPageSize(max((height-12)/2, 3))
}
