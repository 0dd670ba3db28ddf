package views

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application/commands"
	"cognitext/internal/ports"
)

// CreateModel is the model for creating a note or a folder
type CreateModel struct {
	ViewState
	repo      ports.WorkspaceRepository
	index     ports.SearchIndex
	parentDir string
	folder    bool
	form      *InputForm
}

// NewCreateModel creates a new create view model. index may be nil.
func NewCreateModel(repo ports.WorkspaceRepository, index ports.SearchIndex) *CreateModel {
	return &CreateModel{
		repo:  repo,
		index: index,
		form:  NewInputForm(NewInputField("Name", "Meeting notes", 255)),
	}
}

// SetParent prepares the form for a new entry in parentDir
func (m *CreateModel) SetParent(parentDir string, folder bool) {
	m.parentDir = parentDir
	m.folder = folder
	m.ClearMessage()
	m.form.Reset()
	if folder {
		m.form.Fields[0].Input.Placeholder = "Folder name"
	} else {
		m.form.Fields[0].Input.Placeholder = "Note name"
	}
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, switchTo(SwitchToBrowserMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.create(m.form.Value(0))
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *CreateModel) create(name string) tea.Cmd {
	parentDir, folder := m.parentDir, m.folder
	return func() tea.Msg {
		ctx := context.Background()

		if folder {
			result, err := commands.NewCreateFolderCommand(m.repo, parentDir, name).Execute(ctx)
			if err != nil {
				return StatusMsg{Err: err}
			}
			return WorkspaceUpdatedMsg{Message: result.Message}
		}

		result, err := commands.NewCreateNoteCommand(m.repo, m.index, parentDir, name).Execute(ctx)
		if err != nil {
			return StatusMsg{Err: err}
		}
		return OpenDocumentMsg{Path: result.Path, Message: result.Message}
	}
}

// View renders the create view
func (m *CreateModel) View() string {
	title := "New Note"
	if m.folder {
		title = "New Folder"
	}

	where := "."
	if rel, err := filepath.Rel(m.repo.Root(), m.parentDir); err == nil {
		where = filepath.ToSlash(rel)
	}

	return NewViewBuilder().
		Title(title).
		Line(RenderLabelValue("In", where)).
		BlankLine().
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("create")).
		String()
}
