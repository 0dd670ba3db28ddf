package views

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/application"
	"cognitext/internal/domain"
	"cognitext/internal/events"
	"cognitext/internal/ports"
)

// SaveDialogKeyMap defines key bindings for the save confirmation
type SaveDialogKeyMap struct {
	Save    key.Binding
	Discard key.Binding
	Cancel  key.Binding
}

var SaveDialogKeys = SaveDialogKeyMap{
	Save: key.NewBinding(
		key.WithKeys("s", "y"),
		key.WithHelp("s", "save"),
	),
	Discard: key.NewBinding(
		key.WithKeys("d", "n"),
		key.WithHelp("d", "don't save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "c"),
		key.WithHelp("esc", "cancel"),
	),
}

type saveStep int

const (
	stepAsk saveStep = iota
	stepLocation
)

// SaveDialogModel answers a save confirmation request: save to a chosen
// location, discard, or keep the document open
type SaveDialogModel struct {
	ViewState
	tabs    *application.TabManager
	repo    ports.WorkspaceRepository
	request events.SaveConfirmationRequested
	step    saveStep
	form    *InputForm
}

// NewSaveDialogModel creates a new save confirmation model
func NewSaveDialogModel(tabs *application.TabManager, repo ports.WorkspaceRepository) *SaveDialogModel {
	return &SaveDialogModel{
		tabs: tabs,
		repo: repo,
		form: NewInputForm(NewInputField("Save as (inside the workspace)", "notes/idea.md", 0)),
	}
}

// SetRequest shows the dialog for a pending document. Save requests that
// do not close the tab skip straight to the location step.
func (m *SaveDialogModel) SetRequest(req events.SaveConfirmationRequested) {
	m.request = req
	m.ClearMessage()
	m.form.Reset()
	m.form.SetValue(0, domain.EnsureMarkdownExt(req.Label))
	m.step = stepAsk
	if !req.Closing {
		m.step = stepLocation
	}
}

// TabID returns the tab the dialog is about
func (m *SaveDialogModel) TabID() string {
	return m.request.TabID
}

// Init initializes the dialog
func (m *SaveDialogModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the dialog
func (m *SaveDialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StatusMsg:
		if msg.Err != nil {
			m.SetError(msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.step == stepAsk {
			switch {
			case key.Matches(msg, SaveDialogKeys.Save):
				m.step = stepLocation
				return m, m.form.Init()
			case key.Matches(msg, SaveDialogKeys.Discard):
				return m, m.resolve(application.DiscardChoice{}, "Discarded "+m.request.Label)
			case key.Matches(msg, SaveDialogKeys.Cancel):
				return m, m.resolve(application.CancelChoice{}, "")
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			// Leaving the location step keeps the document open
			return m, m.resolve(application.SaveChoice{}, "")
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.saveAs(m.form.Value(0))
		}
	}

	if m.step == stepLocation {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *SaveDialogModel) saveAs(rel string) tea.Cmd {
	return func() tea.Msg {
		if err := application.ValidateRelativePath("location", rel); err != nil {
			return StatusMsg{Err: err}
		}
		path, err := m.repo.Resolve(domain.EnsureMarkdownExt(rel))
		if err != nil {
			return StatusMsg{Err: err}
		}
		if _, err := os.Lstat(path); err == nil {
			return StatusMsg{Err: fmt.Errorf("%s: %w", rel, fs.ErrExist)}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return StatusMsg{Err: err}
		}

		if err := m.tabs.ResolvePending(m.request.TabID, application.SaveChoice{Path: path}); err != nil {
			return StatusMsg{Err: err}
		}
		return SaveResolvedMsg{Message: "Saved " + domain.FileNameWithoutExtension(path), Saved: true}
	}
}

func (m *SaveDialogModel) resolve(choice application.CloseChoice, message string) tea.Cmd {
	id := m.request.TabID
	return func() tea.Msg {
		if err := m.tabs.ResolvePending(id, choice); err != nil {
			return StatusMsg{Err: err}
		}
		return SaveResolvedMsg{Message: message}
	}
}

// SaveResolvedMsg reports that the pending confirmation was answered.
// Saved is set when a new file was written to the workspace.
type SaveResolvedMsg struct {
	Message string
	Saved   bool
}

// View renders the dialog
func (m *SaveDialogModel) View() string {
	var body *ViewBuilder
	if m.step == stepAsk {
		body = NewViewBuilder().
			Line(styles.Title.Render("Unsaved document")).
			Line(fmt.Sprintf("Do you want to save the changes to %s?", m.request.Label)).
			Muted("Your changes are lost if you don't save them.").
			BlankLine().
			Message(m.Message, m.MessageErr).
			Help(SaveDialogKeys.Save, SaveDialogKeys.Discard, SaveDialogKeys.Cancel)
	} else {
		body = NewViewBuilder().
			Line(styles.Title.Render("Save "+m.request.Label)).
			Line(m.form.RenderFields()).
			BlankLine().
			Message(m.Message, m.MessageErr).
			Raw(m.form.RenderHelp("save"))
	}
	return styles.App.Render(styles.Modal.Render(body.StringUnwrapped()))
}
