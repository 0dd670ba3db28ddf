package views

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
	"cognitext/internal/application"
)

// ChatKeyMap defines key bindings for the chat view
type ChatKeyMap struct {
	Abort key.Binding
	Close key.Binding
}

var ChatKeys = ChatKeyMap{
	Abort: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "stop"),
	),
	Close: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("enter", "back to editor"),
	),
}

// ChatProgressMsg carries the state of the running request
type ChatProgressMsg struct {
	Progress application.ChatProgress
}

// ChatDoneMsg ends a request. Generated is empty on error or abort.
type ChatDoneMsg struct {
	Generated string
	Err       error
}

// ChatModel shows a continue-writing request while it streams
type ChatModel struct {
	ViewState
	chat     *application.ChatService
	spinner  spinner.Model
	viewport viewport.Model
	running  bool
}

// NewChatModel creates a new chat view model
func NewChatModel(chat *application.ChatService) *ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.HelpKey

	return &ChatModel{
		chat:     chat,
		spinner:  s,
		viewport: viewport.New(80, 20),
	}
}

// Start resets the view for a new request
func (m *ChatModel) Start() tea.Cmd {
	m.running = true
	m.ClearMessage()
	m.viewport.SetContent(RenderMuted("Waiting for the model..."))
	return m.spinner.Tick
}

// Running reports whether the view waits for a request to finish
func (m *ChatModel) Running() bool {
	return m.running
}

// Init initializes the chat view
func (m *ChatModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the chat view
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ChatProgressMsg:
		if m.running {
			m.setProgress(msg.Progress)
		}
		return m, nil

	case ChatDoneMsg:
		m.running = false
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.SetMessage("Stopped. The document was left unchanged.", true)
		case msg.Err != nil:
			m.SetError(msg.Err)
		case msg.Generated == "":
			m.SetMessage("The model returned nothing.", true)
		default:
			m.SetMessage("Added to the document.", false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.running {
			if key.Matches(msg, ChatKeys.Abort) {
				m.chat.Abort()
			}
			return m, nil
		}
		if key.Matches(msg, ChatKeys.Close) {
			return m, switchTo(SwitchToEditorMsg{})
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ChatModel) setProgress(p application.ChatProgress) {
	text := p.Content
	if p.Thinking != "" {
		text = styles.Thinking.Render(p.Thinking) + "\n\n" + p.Content
	}
	m.viewport.SetContent(text)
	m.viewport.GotoBottom()
}

// View renders the chat view
func (m *ChatModel) View() string {
	v := NewViewBuilder()
	if m.running {
		v.Title(m.spinner.View() + " Continue writing")
	} else {
		v.Title("Continue writing")
	}

	v.Line(m.viewport.View()).
		Message(m.Message, m.MessageErr)

	if m.running {
		return v.Help(ChatKeys.Abort).String()
	}
	return v.Help(ChatKeys.Close).String()
}

// SetSize updates the view dimensions
func (m *ChatModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.viewport.Width = max(width-4, 20)
	m.viewport.Height = max(height-10, 3)
}
