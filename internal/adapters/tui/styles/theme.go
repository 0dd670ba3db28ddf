package styles

import "github.com/charmbracelet/lipgloss"

// Palette holds the colors of a theme
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Text      lipgloss.Color
	Surface   lipgloss.Color // Status bar and inactive tabs
	Folder    lipgloss.Color
}

var (
	Light = Palette{
		Primary:   lipgloss.Color("#6D28D9"), // Purple
		Secondary: lipgloss.Color("#047857"), // Green
		Muted:     lipgloss.Color("#6B7280"), // Gray
		Warning:   lipgloss.Color("#D97706"), // Amber
		Error:     lipgloss.Color("#DC2626"), // Red
		Text:      lipgloss.Color("#111827"),
		Surface:   lipgloss.Color("#E5E7EB"),
		Folder:    lipgloss.Color("#2563EB"), // Blue
	}

	Dark = Palette{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#10B981"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Text:      lipgloss.Color("#F9FAFB"),
		Surface:   lipgloss.Color("#1F2937"),
		Folder:    lipgloss.Color("#60A5FA"),
	}
)

const White = lipgloss.Color("#FFFFFF")

// Tree indicators
const (
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "
	DirtyMarker   = "●"
)

var (
	current Palette
	dark    bool

	App           lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	NodeFolder    lipgloss.Style
	NodeFile      lipgloss.Style
	NodeOther     lipgloss.Style
	NodeSelected  lipgloss.Style
	TreeBranch    lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	StatusBar     lipgloss.Style
	StatusKey     lipgloss.Style
	StatusText    lipgloss.Style
	InputLabel    lipgloss.Style
	InputField    lipgloss.Style
	InputFocused  lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
	Success       lipgloss.Style
	ErrorMsg      lipgloss.Style
	SearchMatch   lipgloss.Style
	MutedText     lipgloss.Style
	Modal         lipgloss.Style
	Thinking      lipgloss.Style
)

func init() {
	Apply(false)
}

// Apply rebuilds every style from the light or dark palette
func Apply(isDark bool) {
	dark = isDark
	current = Light
	if isDark {
		current = Dark
	}
	p := current

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	NodeFolder = lipgloss.NewStyle().
		Foreground(p.Folder).
		Bold(true)

	NodeFile = lipgloss.NewStyle().
		Foreground(p.Text)

	NodeOther = lipgloss.NewStyle().
		Foreground(p.Muted)

	NodeSelected = lipgloss.NewStyle().
		Background(p.Primary).
		Foreground(White).
		Bold(true)

	TreeBranch = lipgloss.NewStyle().Foreground(p.Muted)

	TabActive = lipgloss.NewStyle().
		Background(p.Primary).
		Foreground(White).
		Bold(true).
		Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Muted).
		Padding(0, 1)

	StatusBar = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Text).
		Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
		Background(p.Primary).
		Foreground(White).
		Padding(0, 1).
		MarginRight(1)

	StatusText = lipgloss.NewStyle().
		Foreground(p.Muted)

	InputLabel = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	InputField = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted).
		Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
		Foreground(p.Muted)

	HelpSeparator = lipgloss.NewStyle().
		Foreground(p.Muted).
		SetString(" • ")

	Success = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	SearchMatch = lipgloss.NewStyle().
		Background(p.Warning).
		Foreground(lipgloss.Color("#000000"))

	MutedText = lipgloss.NewStyle().
		Foreground(p.Muted)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Warning).
		Padding(1, 2)

	Thinking = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)
}

// IsDark reports whether the dark palette is applied
func IsDark() bool {
	return dark
}

// Current returns the applied palette
func Current() Palette {
	return current
}

// GlamourStyle returns the glamour style name matching the palette
func GlamourStyle() string {
	if dark {
		return "dark"
	}
	return "light"
}
