package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cognitext/internal/adapters/filesystem"
)

func TestHighlightSnippet(t *testing.T) {
	got := HighlightSnippet("the [quick] brown\n[fox]")

	for _, want := range []string{"quick", "fox", "brown"} {
		if !strings.Contains(got, want) {
			t.Errorf("snippet %q lost %q", got, want)
		}
	}
	if strings.ContainsAny(got, "[]\n") {
		t.Errorf("snippet %q still has marks or newlines", got)
	}
}

func TestSearch_WithoutIndexUsesFileNames(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Projects"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Projects/Release plan.md", "Inbox.md"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("# x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewSearchModel(filesystem.NewRepository(root, t.TempDir()), nil)
	if m.Mode() != SearchFiles {
		t.Fatalf("mode = %v, want file search without an index", m.Mode())
	}
	m.SetSize(80, 40)

	m.input.SetValue("relpl")
	msg := m.search("relpl")()
	m.Update(msg)

	if len(m.results) != 1 {
		t.Fatalf("results = %+v, want one match", m.results)
	}
	if m.results[0].RelPath != "Projects/Release plan.md" {
		t.Errorf("RelPath = %q", m.results[0].RelPath)
	}

	if open, ok := press(t, m, "enter").(OpenDocumentMsg); !ok || open.Path != filepath.Join(root, "Projects", "Release plan.md") {
		t.Errorf("enter = %#v, want OpenDocumentMsg for the match", open)
	}
}

func TestSearch_DropsStaleResults(t *testing.T) {
	m := NewSearchModel(filesystem.NewRepository(t.TempDir(), t.TempDir()), nil)
	m.input.SetValue("newer")

	m.Update(searchResultsMsg{query: "old", mode: SearchFiles, results: []searchItem{{Path: "/x.md"}}})

	if len(m.results) != 0 {
		t.Errorf("stale results were shown: %+v", m.results)
	}
}
