package views

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/application"
	"cognitext/internal/domain"
)

const (
	fieldTheme = iota
	fieldTabSize
	fieldLocale
	fieldStartupDir
	fieldProvider
	fieldBaseURL
	fieldModel
	fieldAPIKey
)

// SettingsModel edits the persisted settings. Saving broadcasts the
// settings-updated signal, which persists the file and reaches every
// other listener.
type SettingsModel struct {
	ViewState
	settings *application.SettingsService
	form     *InputForm
}

// NewSettingsModel creates a new settings view model
func NewSettingsModel(settings *application.SettingsService) *SettingsModel {
	return &SettingsModel{
		settings: settings,
		form: NewInputForm(
			NewInputField("Color theme", "light or dark", 32),
			NewInputField("Tab size", "2", 2),
			NewInputField("Locale", "en", 16),
			NewInputField("Folder opened at startup", "~/notes", 0),
			NewInputField("Chat provider", domain.ProviderDeepSeek+", "+domain.ProviderOpenAI+" or "+domain.ProviderClaudeCLI, 32),
			NewInputField("Chat base URL", "https://api.deepseek.com", 0),
			NewInputField("Chat model", "deepseek-chat", 64),
			NewSecretField("Chat API key", "sk-..."),
		),
	}
}

// Load fills the form from the current settings
func (m *SettingsModel) Load() {
	s := m.settings.Current()
	m.ClearMessage()
	m.form.SetValue(fieldTheme, s.ColorTheme)
	m.form.SetValue(fieldTabSize, strconv.Itoa(s.Editor.TabSize))
	m.form.SetValue(fieldLocale, s.Locale)
	m.form.SetValue(fieldStartupDir, s.ActionOnStartup.Dir)
	m.form.SetValue(fieldProvider, s.Chat.Provider)
	m.form.SetValue(fieldBaseURL, s.Chat.BaseURL)
	m.form.SetValue(fieldModel, s.Chat.Model)
	m.form.SetValue(fieldAPIKey, s.Chat.APIKey)
	m.form.SetFocus(fieldTheme)
}

// Init initializes the settings view
func (m *SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings view
func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, switchTo(SwitchToBrowserMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			if err := m.save(); err != nil {
				m.SetError(err)
				return m, nil
			}
			m.SetMessage("Settings saved", false)
			return m, nil
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// save validates the form and broadcasts the edited settings
func (m *SettingsModel) save() error {
	tabSize, err := strconv.Atoi(m.form.Value(fieldTabSize))
	if err != nil || tabSize < 1 || tabSize > 16 {
		return &application.ValidationError{Field: "tabSize", Message: "tab size must be a number from 1 to 16"}
	}
	if err := application.ValidateRequired("colorTheme", m.form.Value(fieldTheme)); err != nil {
		return err
	}

	provider := m.form.Value(fieldProvider)
	switch provider {
	case domain.ProviderDeepSeek, domain.ProviderOpenAI, domain.ProviderClaudeCLI:
	default:
		return &application.ValidationError{Field: "provider", Message: fmt.Sprintf("unknown chat provider %q", provider)}
	}

	m.settings.Update(func(s *domain.Settings) {
		s.ColorTheme = m.form.Value(fieldTheme)
		s.Editor.TabSize = tabSize
		s.Locale = m.form.Value(fieldLocale)
		s.ActionOnStartup.Dir = m.form.Value(fieldStartupDir)
		if s.ActionOnStartup.Dir != "" {
			s.ActionOnStartup.Action = domain.StartupOpenDir
		}
		s.Chat.Provider = provider
		s.Chat.BaseURL = m.form.Value(fieldBaseURL)
		s.Chat.Model = m.form.Value(fieldModel)
		s.Chat.APIKey = m.form.Value(fieldAPIKey)
	})
	return nil
}

// View renders the settings view
func (m *SettingsModel) View() string {
	return NewViewBuilder().
		Title("Settings").
		Subtitle("Changes are shared with every open window").
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("save")).
		String()
}
