package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel provides a base for yes/no views over a tree node
type ConfirmationModel struct {
	ViewState
	TargetNode *domain.TreeNode
	Keys       ConfirmKeyMap
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// SetTarget sets the target node for the confirmation
func (m *ConfirmationModel) SetTarget(node *domain.TreeNode) {
	m.TargetNode = node
	m.ClearMessage()
}

// HandleKeyMsg processes key messages for confirmation views.
// Returns (handled, cmd) where handled is true if the key was processed.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, func() tea.Msg { return onCancel() }
	case key.Matches(msg, m.Keys.Confirm):
		return true, func() tea.Msg { return onConfirm() }
	}
	return false, nil
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}

// RenderTargetInfo renders the kind and workspace path of the target node
func RenderTargetInfo(node *domain.TreeNode, action string) string {
	if node == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(action + " " + strings.ToLower(node.Kind.String()) + ":"))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(node.RelPath())

	return b.String()
}
