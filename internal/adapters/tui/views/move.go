package views

import (
	"context"
	"fmt"
	"path"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application"
	"cognitext/internal/application/commands"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// MoveModel is the model for moving a note or folder to another folder
type MoveModel struct {
	ViewState
	repo   ports.WorkspaceRepository
	index  ports.SearchIndex
	source *domain.TreeNode
	form   *InputForm
}

// NewMoveModel creates a new move view model. index may be nil.
func NewMoveModel(repo ports.WorkspaceRepository, index ports.SearchIndex) *MoveModel {
	return &MoveModel{
		repo:  repo,
		index: index,
		form:  NewInputForm(NewInputField("Destination folder", "Projects/Archive (empty for the workspace root)", 0)),
	}
}

// SetSource sets the node to move, prefilled with its current folder
func (m *MoveModel) SetSource(node *domain.TreeNode) {
	m.source = node
	m.ClearMessage()
	m.form.Reset()
	if dir := path.Dir(node.RelPath()); dir != "." {
		m.form.SetValue(0, dir)
	}
}

// Init initializes the move view
func (m *MoveModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the move view
func (m *MoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			return m, m.move(m.form.Value(0))
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *MoveModel) move(dest string) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		if source == nil {
			return StatusMsg{Err: fmt.Errorf("no source selected")}
		}
		if dest != "" {
			if err := application.ValidateRelativePath("destination", dest); err != nil {
				return StatusMsg{Err: err}
			}
		}
		destDir, err := m.repo.Resolve(dest)
		if err != nil {
			return StatusMsg{Err: err}
		}

		result, err := commands.NewMoveCommand(m.repo, m.index, source.Path, destDir).Execute(context.Background())
		if err != nil {
			return StatusMsg{Err: err}
		}
		return WorkspaceUpdatedMsg{Message: result.Message, Old: result.OldPath, New: result.NewPath}
	}
}

// View renders the move view
func (m *MoveModel) View() string {
	v := NewViewBuilder().Title("Move")
	if m.source != nil {
		v.Raw(RenderTargetInfo(m.source, "Move")).BlankLine().BlankLine()
	}
	return v.Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("move")).
		String()
}
