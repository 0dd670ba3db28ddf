package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/domain"
)

// TOCKeyMap defines key bindings for the outline view
type TOCKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Close key.Binding
}

var TOCKeys = TOCKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+t"),
		key.WithHelp("esc", "back to editor"),
	),
}

// TOCModel shows the heading outline of each open document. Outlines
// arrive with the file-toc event whenever a document is opened or saved.
type TOCModel struct {
	ViewState
	outlines  map[string][]domain.TOCLine // By tab ID
	tabID     string
	paginator *Paginator
}

// NewTOCModel creates a new outline view model
func NewTOCModel() *TOCModel {
	return &TOCModel{
		outlines:  make(map[string][]domain.TOCLine),
		paginator: NewPaginator(20),
	}
}

// SetEntries stores the headings of a tab as a nested outline
func (m *TOCModel) SetEntries(tabID string, entries []domain.HeadingEntry) {
	m.outlines[tabID] = domain.FlattenTOC(domain.BuildTOCTree(entries))
	if tabID == m.tabID {
		m.paginator.SetTotal(len(m.outlines[tabID]))
	}
}

// Forget drops the outline of a closed tab
func (m *TOCModel) Forget(tabID string) {
	delete(m.outlines, tabID)
}

// Show selects the tab whose outline is displayed
func (m *TOCModel) Show(tabID string) {
	m.tabID = tabID
	m.paginator.Reset()
	m.paginator.SetTotal(len(m.outlines[tabID]))
}

// Lines returns the outline of a tab
func (m *TOCModel) Lines(tabID string) []domain.TOCLine {
	return m.outlines[tabID]
}

// Init initializes the outline view
func (m *TOCModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the outline view
func (m *TOCModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, TOCKeys.Close):
			return m, switchTo(SwitchToEditorMsg{})
		case key.Matches(msg, TOCKeys.Up):
			m.paginator.CursorUp()
		case key.Matches(msg, TOCKeys.Down):
			m.paginator.CursorDown()
		}
	}
	return m, nil
}

// View renders the outline view
func (m *TOCModel) View() string {
	v := NewViewBuilder().Title("Outline")

	lines := m.outlines[m.tabID]
	if len(lines) == 0 {
		v.Muted("No headings. Save the document to refresh the outline.")
	}

	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		line := lines[i]
		text := strings.Repeat("  ", line.Depth) + RenderMuted(line.Entry.Tag()) + " " + line.Entry.Text
		if i == m.paginator.Cursor() {
			text = strings.Repeat("  ", line.Depth) + styles.NodeSelected.Render(line.Entry.Tag()+" "+line.Entry.Text)
		}
		v.Line(text)
	}

	return v.BlankLine().
		Help(TOCKeys.Up, TOCKeys.Down, TOCKeys.Close).
		String()
}

// SetSize updates the view dimensions
func (m *TOCModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(height-8, 5))
}
