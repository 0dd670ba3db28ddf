package domain

import "strings"

// StartupAction selects what the workspace shows at launch
type StartupAction int

const (
	StartupOpenDir   StartupAction = 1
	StartupBlankFile StartupAction = 2
)

// ImageAction selects what happens to pasted or inserted images
type ImageAction int

const (
	ImageCopy   ImageAction = 1
	ImageKeep   ImageAction = 2
	ImageUpload ImageAction = 3
)

// Chat providers understood by the chat adapters
const (
	ProviderDeepSeek  = "deepseek"
	ProviderOpenAI    = "openai"
	ProviderClaudeCLI = "claude-cli"
)

const FilenamePlaceholder = "${filename}"

// Settings is the persisted user configuration. Field names follow the
// settings.json keys.
type Settings struct {
	ColorTheme      string          `json:"colorTheme"`
	Editor          EditorSettings  `json:"editor"`
	Locale          string          `json:"locale"`
	ActionOnStartup StartupSettings `json:"actionOnStartup"`
	Image           ImageSettings   `json:"image"`
	Chat            ChatSettings    `json:"chat"`
}

type EditorSettings struct {
	RenderWhitespace bool `json:"renderWhitespace"`
	TabSize          int  `json:"tabSize"`
	FontSize         int  `json:"fontSize"`
}

type StartupSettings struct {
	Action StartupAction `json:"action"`
	Dir    string        `json:"dir"`
}

type ImageSettings struct {
	Action               ImageAction `json:"action"`
	RelativeFolderName   string      `json:"relativeFolderName"`
	GlobalDir            string      `json:"globalDir"`
	PreferRelativeFolder bool        `json:"preferRelativeFolder"`
}

type ChatSettings struct {
	Provider string `json:"provider"`
	BaseURL  string `json:"baseUrl"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

// DefaultSettings returns the settings used when no file exists yet
func DefaultSettings() Settings {
	return Settings{
		ColorTheme: "light",
		Editor: EditorSettings{
			RenderWhitespace: false,
			TabSize:          2,
			FontSize:         14,
		},
		Locale: "en",
		ActionOnStartup: StartupSettings{
			Action: StartupOpenDir,
		},
		Image: ImageSettings{
			Action:               ImageCopy,
			RelativeFolderName:   FilenamePlaceholder + ".assets",
			PreferRelativeFolder: true,
		},
		Chat: ChatSettings{
			Provider: ProviderDeepSeek,
			BaseURL:  "https://api.deepseek.com",
			Model:    "deepseek-chat",
		},
	}
}

// RelativeImageFolder expands the relative folder template for a document
func (s ImageSettings) RelativeImageFolder(docName string) string {
	tmpl := s.RelativeFolderName
	if tmpl == "" {
		tmpl = FilenamePlaceholder + ".assets"
	}
	return strings.ReplaceAll(tmpl, FilenamePlaceholder, docName)
}

// IsDark reports whether the configured theme is a dark one
func (s Settings) IsDark() bool {
	return strings.Contains(strings.ToLower(s.ColorTheme), "dark")
}
