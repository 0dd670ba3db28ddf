package events

import "cognitext/internal/domain"

// Kind identifies an event type on the bus
type Kind string

const (
	KindFileSaved                 Kind = "file/saved"
	KindFileTOC                   Kind = "file/toc"
	KindSaveFile                  Kind = "file/save"
	KindFileChanged               Kind = "file/changed"
	KindMenuSave                  Kind = "menu/save"
	KindNewFile                   Kind = "file/new"
	KindSettingsUpdated           Kind = "settings-updated"
	KindThemeChanged              Kind = "theme/changed"
	KindActiveTabChanged          Kind = "tab/active"
	KindTabClosed                 Kind = "tab/closed"
	KindSaveConfirmationRequested Kind = "tab/confirm-save"
	KindWorkspaceChanged          Kind = "workspace/changed"
)

// Event is implemented by every payload the bus carries
type Event interface {
	Kind() Kind
}

// FileSaved is published after a document was written to disk
type FileSaved struct {
	TabID   string
	Path    string
	Content string
	WasNew  bool
}

// FileTOC carries the headings of a freshly opened or saved document
type FileTOC struct {
	TabID   string
	Entries []domain.HeadingEntry
}

// SaveFile asks the tab manager to save a document. An empty Path saves
// to the document's own path.
type SaveFile struct {
	TabID string
	Path  string
}

// FileChanged is published when a document's content was edited
type FileChanged struct {
	TabID string
}

// MenuSave is the save keybinding or menu entry
type MenuSave struct{}

// NewFile asks for a new blank document
type NewFile struct{}

// SettingsUpdated carries the full settings object. FromDisk is set when
// another process already wrote the file.
type SettingsUpdated struct {
	Settings domain.Settings
	FromDisk bool
}

type ThemeChanged struct {
	Theme string
}

type ActiveTabChanged struct {
	TabID string // Empty when no tab is open
}

type TabClosed struct {
	TabID string
}

// SaveConfirmationRequested asks the user whether to save a new document
// before closing it.
type SaveConfirmationRequested struct {
	TabID   string
	Label   string
	Closing bool // False when only a save location is wanted
}

type WorkspaceChanged struct {
	Path string
}

func (FileSaved) Kind() Kind                 { return KindFileSaved }
func (FileTOC) Kind() Kind                   { return KindFileTOC }
func (SaveFile) Kind() Kind                  { return KindSaveFile }
func (FileChanged) Kind() Kind               { return KindFileChanged }
func (MenuSave) Kind() Kind                  { return KindMenuSave }
func (NewFile) Kind() Kind                   { return KindNewFile }
func (SettingsUpdated) Kind() Kind           { return KindSettingsUpdated }
func (ThemeChanged) Kind() Kind              { return KindThemeChanged }
func (ActiveTabChanged) Kind() Kind          { return KindActiveTabChanged }
func (TabClosed) Kind() Kind                 { return KindTabClosed }
func (SaveConfirmationRequested) Kind() Kind { return KindSaveConfirmationRequested }
func (WorkspaceChanged) Kind() Kind          { return KindWorkspaceChanged }
