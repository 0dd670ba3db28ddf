package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/application/commands"
	"cognitext/internal/ports"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	repo  ports.WorkspaceRepository
	index ports.SearchIndex
}

// NewDeleteModel creates a new delete view model. index may be nil.
func NewDeleteModel(repo ports.WorkspaceRepository, index ports.SearchIndex) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		repo:              repo,
		index:             index,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.TargetNode == nil {
		return StatusMsg{Err: fmt.Errorf("no target selected")}
	}

	result, err := commands.NewDeleteCommand(m.repo, m.index, m.TargetNode.Path).Execute(context.Background())
	if err != nil {
		return StatusMsg{Err: err}
	}
	return WorkspaceUpdatedMsg{Message: result.Message, Old: result.DeletedPath}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().
		Title("Delete").
		Raw(styles.ErrorMsg.Render("This action cannot be undone!")).
		BlankLine().BlankLine().
		Raw(RenderTargetInfo(m.TargetNode, "Delete")).
		BlankLine().BlankLine()

	if m.TargetNode != nil && m.TargetNode.IsDir() {
		v.Muted("  Everything inside the folder is deleted too.").BlankLine()
	}

	return v.Message(m.Message, m.MessageErr).
		Raw(RenderConfirmPrompt("Are you sure?")).
		String()
}
