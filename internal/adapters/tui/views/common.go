package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application"
	"cognitext/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err as an error message
func (s *ViewState) SetError(err error) {
	s.SetMessage(ErrorText(err), true)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// ErrorText turns an error into the line shown on the status line.
// Validation errors only show their message.
func ErrorText(err error) string {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

// Messages for view switching
type SwitchToBrowserMsg struct{}

type SwitchToEditorMsg struct{}

type SwitchToCreateMsg struct {
	ParentDir string
	Folder    bool
}

type SwitchToRenameMsg struct {
	Node *domain.TreeNode
}

type SwitchToMoveMsg struct {
	Node *domain.TreeNode
}

type SwitchToDeleteMsg struct {
	Node *domain.TreeNode
}

type SwitchToSearchMsg struct {
	Mode SearchMode
}

type SwitchToPreviewMsg struct{}

type SwitchToTOCMsg struct{}

type SwitchToSettingsMsg struct{}

type SwitchToHelpMsg struct{}

// Requests handled by the app

// OpenDocumentMsg asks to open a file in a tab
type OpenDocumentMsg struct {
	Path    string
	Message string
}

// OpenExternalMsg asks to hand a file to the external editor
type OpenExternalMsg struct {
	Path string
}

// RevealMsg asks to show a path in the file manager, or open it with the
// default application
type RevealMsg struct {
	Path    string
	Default bool
}

// CommitMsg asks to commit the workspace
type CommitMsg struct{}

// ContinueWritingMsg asks the chat service to continue the active tab
type ContinueWritingMsg struct{}

// WorkspaceUpdatedMsg reports a finished file operation. Old and New are
// set when a path moved, so open tabs can follow it.
type WorkspaceUpdatedMsg struct {
	Message string
	Old     string
	New     string
}

// StatusMsg shows a line on the current view
type StatusMsg struct {
	Message string
	Err     error
}

// Status returns a command that shows a status line
func Status(message string, err error) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: message, Err: err}
	}
}

func switchTo(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
