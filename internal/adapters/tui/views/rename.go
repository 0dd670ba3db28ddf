package views

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application/commands"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// RenameModel is the model for renaming a note or a folder in place
type RenameModel struct {
	ViewState
	repo   ports.WorkspaceRepository
	index  ports.SearchIndex
	source *domain.TreeNode
	form   *InputForm
}

// NewRenameModel creates a new rename view model. index may be nil.
func NewRenameModel(repo ports.WorkspaceRepository, index ports.SearchIndex) *RenameModel {
	return &RenameModel{
		repo:  repo,
		index: index,
		form:  NewInputForm(NewInputField("New name", "", 255)),
	}
}

// SetSource prefills the form with the current name. Notes show their
// name without the extension, which the rename keeps.
func (m *RenameModel) SetSource(node *domain.TreeNode) {
	m.source = node
	m.ClearMessage()
	m.form.Reset()

	name := node.Name
	if !node.IsDir() {
		name = domain.FileNameWithoutExtension(node.Name)
	}
	m.form.SetValue(0, name)
}

// Init initializes the rename view
func (m *RenameModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the rename view
func (m *RenameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			return m, m.rename(m.form.Value(0))
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *RenameModel) rename(newName string) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		if source == nil {
			return StatusMsg{Err: fmt.Errorf("no source selected")}
		}
		result, err := commands.NewRenameCommand(m.repo, m.index, source.Path, newName).Execute(context.Background())
		if err != nil {
			return StatusMsg{Err: err}
		}
		return WorkspaceUpdatedMsg{Message: result.Message, Old: result.OldPath, New: result.NewPath}
	}
}

// View renders the rename view
func (m *RenameModel) View() string {
	v := NewViewBuilder().Title("Rename")
	if m.source != nil {
		v.Line(RenderLabelValue("Current", m.source.RelPath())).BlankLine()
		if !m.source.IsDir() {
			v.Muted("The extension " + filepath.Ext(m.source.Name) + " is kept when none is given.").BlankLine()
		}
	}
	return v.Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("rename")).
		String()
}
