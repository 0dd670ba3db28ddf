package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"cognitext/internal/adapters/filesystem"
)

func setupBrowser(t *testing.T) (*BrowserModel, string) {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"Projects/Go", "Journal", ".git"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		"Inbox.md":             "# Inbox\n",
		"Projects/Plan.md":     "# Plan\n",
		"Projects/Go/Notes.md": "# Notes\n",
		"photo.png":            "png",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewBrowserModel(filesystem.NewRepository(root, t.TempDir()))
	m.SetSize(80, 40)
	run(t, m, m.Init())
	return m, root
}

// run executes cmd and feeds its message back into the model, following
// the chain of returned commands
func run(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	var last tea.Msg
	for cmd != nil {
		last = cmd()
		switch last.(type) {
		case treeLoadedMsg, childrenLoadedMsg, errMsg:
			_, cmd = m.Update(last)
		default:
			return last
		}
	}
	return last
}

func press(t *testing.T, m tea.Model, keys string) tea.Msg {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return run(t, m, cmd)
}

func names(m *BrowserModel) []string {
	var out []string
	for _, n := range m.flatNodes {
		out = append(out, n.Name)
	}
	return out
}

func TestBrowser_LoadsFirstLevel(t *testing.T) {
	m, _ := setupBrowser(t)

	got := strings.Join(names(m), ",")
	want := "Journal,Projects,Inbox.md,photo.png"
	if got != want {
		t.Errorf("nodes = %q, want %q", got, want)
	}

	view := m.View()
	for _, s := range []string{"Projects", "Inbox", "photo.png"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q", s)
		}
	}
	if strings.Contains(view, ".git") {
		t.Error("hidden folder should not be shown")
	}
}

func TestBrowser_ExpandAndCollapse(t *testing.T) {
	m, _ := setupBrowser(t)

	press(t, m, "j") // Projects
	press(t, m, "l")

	got := strings.Join(names(m), ",")
	want := "Journal,Projects,Go,Plan.md,Inbox.md,photo.png"
	if got != want {
		t.Fatalf("after expand nodes = %q, want %q", got, want)
	}

	press(t, m, "j") // Go
	press(t, m, "h") // Go is collapsed, so go to parent
	if sel := m.SelectedNode(); sel == nil || sel.Name != "Projects" {
		t.Fatalf("selected = %v, want Projects", sel)
	}

	press(t, m, "h")
	if len(m.flatNodes) != 4 {
		t.Errorf("after collapse got %d nodes, want 4", len(m.flatNodes))
	}
}

func TestBrowser_EnterOpensMarkdown(t *testing.T) {
	m, root := setupBrowser(t)

	press(t, m, "j")
	press(t, m, "j") // Inbox.md
	msg := press(t, m, "enter")

	open, ok := msg.(OpenDocumentMsg)
	if !ok {
		t.Fatalf("got %T, want OpenDocumentMsg", msg)
	}
	if open.Path != filepath.Join(root, "Inbox.md") {
		t.Errorf("path = %q", open.Path)
	}

	press(t, m, "j") // photo.png
	if msg := press(t, m, "enter"); msg != nil {
		t.Errorf("non markdown file should not open, got %T", msg)
	}
}

func TestBrowser_CreateTargetsFolder(t *testing.T) {
	m, root := setupBrowser(t)

	tests := []struct {
		name    string
		keys    []string
		want    string
		wantDir bool
	}{
		{"folder selected", nil, filepath.Join(root, "Journal"), false},
		{"file selected", []string{"j", "j"}, root, false},
		{"new folder", []string{"k", "k"}, filepath.Join(root, "Journal"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				press(t, m, k)
			}
			trigger := "n"
			if tt.wantDir {
				trigger = "N"
			}
			msg, ok := press(t, m, trigger).(SwitchToCreateMsg)
			if !ok {
				t.Fatal("expected SwitchToCreateMsg")
			}
			if msg.ParentDir != tt.want || msg.Folder != tt.wantDir {
				t.Errorf("got %+v, want dir %q folder %v", msg, tt.want, tt.wantDir)
			}
		})
	}
}

func TestBrowser_ReloadKeepsExpandedFolders(t *testing.T) {
	m, root := setupBrowser(t)

	press(t, m, "j")
	press(t, m, "l") // Projects expanded
	press(t, m, "j") // Go
	press(t, m, "l") // Go expanded
	press(t, m, "j") // Notes.md
	if err := os.WriteFile(filepath.Join(root, "Projects", "Go", "Zed.md"), []byte("# Zed"), 0o644); err != nil {
		t.Fatal(err)
	}

	run(t, m, m.Reload())

	got := strings.Join(names(m), ",")
	want := "Journal,Projects,Go,Notes.md,Zed.md,Plan.md,Inbox.md,photo.png"
	if got != want {
		t.Errorf("nodes = %q, want %q", got, want)
	}
	if sel := m.SelectedNode(); sel == nil || sel.Name != "Notes.md" {
		t.Errorf("cursor should stay on Notes.md, got %v", sel)
	}
}

func TestBrowser_ActionsNeedSelection(t *testing.T) {
	m := NewBrowserModel(filesystem.NewRepository(t.TempDir(), t.TempDir()))
	run(t, m, m.Init())

	for _, k := range []string{"r", "m", "d", "e", "o"} {
		if msg := press(t, m, k); msg != nil {
			t.Errorf("key %q on empty tree returned %T", k, msg)
		}
	}
	if !strings.Contains(m.View(), "Empty workspace") {
		t.Error("expected empty workspace hint")
	}
}
