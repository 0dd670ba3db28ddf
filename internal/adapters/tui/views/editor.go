package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application"
	"cognitext/internal/domain"
)

// EditorKeyMap defines key bindings for the editor view
type EditorKeyMap struct {
	Save     key.Binding
	Close    key.Binding
	New      key.Binding
	Next     key.Binding
	Prev     key.Binding
	Preview  key.Binding
	TOC      key.Binding
	Continue key.Binding
	External key.Binding
	Browser  key.Binding
	Quit     key.Binding
}

var EditorKeys = EditorKeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Close: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "close tab"),
	),
	New: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new"),
	),
	Next: key.NewBinding(
		key.WithKeys("ctrl+pgdown", "alt+]"),
		key.WithHelp("alt+]", "next tab"),
	),
	Prev: key.NewBinding(
		key.WithKeys("ctrl+pgup", "alt+["),
		key.WithHelp("alt+[", "previous tab"),
	),
	Preview: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "preview"),
	),
	TOC: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "outline"),
	),
	Continue: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "continue writing"),
	),
	External: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "external editor"),
	),
	Browser: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "files"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// EditorModel edits the active tab of the tab manager
type EditorModel struct {
	ViewState
	tabs     *application.TabManager
	area     textarea.Model
	activeID string
	tabSize  int
}

// NewEditorModel creates a new editor view model
func NewEditorModel(tabs *application.TabManager) *EditorModel {
	area := textarea.New()
	area.CharLimit = 0
	area.MaxHeight = 0
	area.MaxWidth = 0
	area.ShowLineNumbers = true
	area.Prompt = ""
	area.Focus()

	return &EditorModel{
		tabs:    tabs,
		area:    area,
		tabSize: 2,
	}
}

// Init initializes the editor view
func (m *EditorModel) Init() tea.Cmd {
	return textarea.Blink
}

// Sync loads the active tab into the text area when it changed. With
// force the content is reloaded even for the same tab.
func (m *EditorModel) Sync(force bool) {
	doc, ok := m.tabs.Active()
	if !ok {
		m.activeID = ""
		m.area.SetValue("")
		return
	}
	if doc.ID == m.activeID && !force {
		return
	}
	m.activeID = doc.ID
	m.area.SetValue(doc.Content)
}

// ActiveID returns the tab shown in the editor
func (m *EditorModel) ActiveID() string {
	return m.activeID
}

// SetTabSize sets how many spaces the tab key inserts
func (m *EditorModel) SetTabSize(size int) {
	if size <= 0 {
		size = 2
	}
	m.tabSize = size
}

// Update handles messages for the editor view
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StatusMsg:
		if msg.Err != nil {
			m.SetError(msg.Err)
		} else {
			m.SetMessage(msg.Message, false)
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	if m.activeID == "" {
		return m, nil
	}

	before := m.area.Value()
	var cmd tea.Cmd
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyTab {
		m.area.InsertString(strings.Repeat(" ", m.tabSize))
	} else {
		m.area, cmd = m.area.Update(msg)
	}
	if after := m.area.Value(); after != before {
		m.ClearMessage()
		if err := m.tabs.Edit(m.activeID, after); err != nil {
			m.SetError(err)
		}
	}
	return m, cmd
}

func (m *EditorModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, EditorKeys.Quit):
		return tea.Quit, true

	case key.Matches(msg, EditorKeys.Browser):
		return switchTo(SwitchToBrowserMsg{}), true

	case key.Matches(msg, EditorKeys.New):
		return switchTo(NewBlankMsg{}), true

	case key.Matches(msg, EditorKeys.Save):
		return m.save(), true

	case key.Matches(msg, EditorKeys.Close):
		return m.close(), true

	case key.Matches(msg, EditorKeys.Next):
		m.cycle(1)
		return nil, true

	case key.Matches(msg, EditorKeys.Prev):
		m.cycle(-1)
		return nil, true

	case key.Matches(msg, EditorKeys.Preview):
		if m.activeID != "" {
			return switchTo(SwitchToPreviewMsg{}), true
		}
		return nil, true

	case key.Matches(msg, EditorKeys.TOC):
		if m.activeID != "" {
			return switchTo(SwitchToTOCMsg{}), true
		}
		return nil, true

	case key.Matches(msg, EditorKeys.Continue):
		if m.activeID != "" {
			return switchTo(ContinueWritingMsg{}), true
		}
		return nil, true

	case key.Matches(msg, EditorKeys.External):
		if doc, ok := m.tabs.Get(m.activeID); ok && !doc.IsNew {
			return switchTo(OpenExternalMsg{Path: doc.Path}), true
		}
		return nil, true
	}
	return nil, false
}

// save writes the active tab. New documents ask for a location through
// a save confirmation instead.
func (m *EditorModel) save() tea.Cmd {
	tabs := m.tabs
	return func() tea.Msg {
		doc, ok := tabs.Active()
		if err := tabs.SaveActive(); err != nil {
			return StatusMsg{Err: err}
		}
		if !ok || doc.IsNew {
			return nil
		}
		return StatusMsg{Message: "Saved " + doc.Label}
	}
}

func (m *EditorModel) close() tea.Cmd {
	id, tabs := m.activeID, m.tabs
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		closed, err := tabs.RequestClose(id)
		if err != nil {
			return StatusMsg{Err: err}
		}
		if closed {
			return StatusMsg{Message: "Tab closed"}
		}
		return nil
	}
}

// cycle activates the tab delta positions away from the active one
func (m *EditorModel) cycle(delta int) {
	docs := m.tabs.Tabs()
	if len(docs) < 2 {
		return
	}
	idx := 0
	for i, d := range docs {
		if d.ID == m.activeID {
			idx = i
			break
		}
	}
	next := docs[(idx+delta+len(docs))%len(docs)]
	if err := m.tabs.Activate(next.ID); err != nil {
		m.SetError(err)
		return
	}
	m.Sync(false)
}

// View renders the tab bar, the text area and a status line
func (m *EditorModel) View() string {
	docs := m.tabs.Tabs()
	v := NewViewBuilder().
		Line(RenderTabBar(docs, m.activeID, m.Width-4)).
		BlankLine()

	if m.activeID == "" {
		v.Muted("No document open. Press ctrl+n for a new one or esc to pick a file.")
	} else {
		v.Line(m.area.View())
	}

	status := m.statusText(docs)
	v.BlankLine()
	if m.Message != "" {
		v.Line(RenderMessage(m.Message, m.MessageErr))
	} else {
		v.Line(RenderStatusLine("EDIT", status, m.Width-4))
	}

	return v.Help(EditorKeys.Save, EditorKeys.Close, EditorKeys.Next, EditorKeys.Preview, EditorKeys.Continue, EditorKeys.Browser).
		String()
}

func (m *EditorModel) statusText(docs []domain.Document) string {
	for _, d := range docs {
		if d.ID != m.activeID {
			continue
		}
		state := d.State.String()
		where := d.Path
		if d.IsNew {
			where = "not saved yet"
		}
		return fmt.Sprintf("%s  %s  line %d", where, state, m.area.Line()+1)
	}
	return ""
}

// SetSize updates the view dimensions
func (m *EditorModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.area.SetWidth(max(width-4, 20))
	// Tab bar, status and help lines plus padding
	m.area.SetHeight(max(height-10, 3))
}
