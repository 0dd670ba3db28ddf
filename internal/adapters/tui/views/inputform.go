package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// InputField represents a single input field with label and textinput
type InputField struct {
	Label string
	Input textinput.Model
}

// InputForm manages multiple text input fields with focus handling
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a new input form with the given fields
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = charLimit
	return InputField{
		Label: label,
		Input: input,
	}
}

// NewSecretField creates an input field that masks what is typed
func NewSecretField(label, placeholder string) InputField {
	field := NewInputField(label, placeholder, 0)
	field.Input.EchoMode = textinput.EchoPassword
	field.Input.EchoCharacter = '•'
	return field
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the input form.
// Returns (handled, cmd) where handled is true if the key moved focus.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Next):
			f.SetFocus((f.FocusedField + 1) % max(len(f.Fields), 1))
			return true, nil
		case key.Matches(msg, f.Keys.Prev):
			f.SetFocus((f.FocusedField - 1 + len(f.Fields)) % max(len(f.Fields), 1))
			return true, nil
		}
	}

	var cmd tea.Cmd
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	}
	return false, cmd
}

// SetFocus sets focus to a specific field
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input.Blur()
	}
	f.FocusedField = index
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the trimmed value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field by index and moves the cursor to its end
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
	f.Fields[index].Input.CursorEnd()
}

// Reset clears all field values and resets focus to the first field
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
		f.Fields[i].Input.Blur()
	}
	f.FocusedField = 0
	if len(f.Fields) > 0 {
		f.Fields[0].Input.Focus()
	}
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render(field.Label))
	b.WriteString("\n")

	if index == f.FocusedField {
		b.WriteString(styles.InputFocused.Render(field.Input.View()))
	} else {
		b.WriteString(styles.InputField.Render(field.Input.View()))
	}

	return b.String()
}

// RenderFields renders every field separated by blank lines
func (f *InputForm) RenderFields() string {
	parts := make([]string, len(f.Fields))
	for i := range f.Fields {
		parts[i] = f.RenderField(i)
	}
	return strings.Join(parts, "\n")
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, styles.HelpKey.Render("tab")+" "+styles.HelpDesc.Render("next field"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"))

	return strings.Join(parts, "  ")
}
