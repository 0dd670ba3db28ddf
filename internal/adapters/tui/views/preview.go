package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application"
	"cognitext/internal/ports"
)

// PreviewKeyMap defines key bindings for the preview view
type PreviewKeyMap struct {
	Close key.Binding
}

var PreviewKeys = PreviewKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+r"),
		key.WithHelp("esc", "back to editor"),
	),
}

// PreviewModel shows the active tab rendered as markdown
type PreviewModel struct {
	ViewState
	tabs     *application.TabManager
	renderer ports.MarkdownRenderer
	viewport viewport.Model
	label    string
}

// NewPreviewModel creates a new preview view model
func NewPreviewModel(tabs *application.TabManager, renderer ports.MarkdownRenderer) *PreviewModel {
	return &PreviewModel{
		tabs:     tabs,
		renderer: renderer,
		viewport: viewport.New(80, 20),
	}
}

// Init initializes the preview view
func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

// Refresh renders the active document again
func (m *PreviewModel) Refresh() {
	doc, ok := m.tabs.Active()
	if !ok {
		m.label = ""
		m.viewport.SetContent(RenderMuted("No document open"))
		return
	}
	m.label = doc.Label

	out, err := m.renderer.Render(doc.Content, m.viewport.Width)
	if err != nil {
		m.SetError(err)
		out = doc.Content
	} else {
		m.ClearMessage()
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// Update handles messages for the preview view
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, PreviewKeys.Close) {
			return m, switchTo(SwitchToEditorMsg{})
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview view
func (m *PreviewModel) View() string {
	return NewViewBuilder().
		Title("Preview: "+m.label).
		Line(m.viewport.View()).
		Message(m.Message, m.MessageErr).
		Help(PreviewKeys.Close).
		String()
}

// SetSize updates the view dimensions
func (m *PreviewModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.viewport.Width = max(width-4, 20)
	m.viewport.Height = max(height-8, 3)
}
