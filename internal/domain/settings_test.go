package domain

import "testing"

func TestImageSettings_RelativeImageFolder(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		doc  string
		want string
	}{
		{"default template", "", "Ideas", "Ideas.assets"},
		{"placeholder", "${filename}.assets", "Plan", "Plan.assets"},
		{"fixed folder", "images", "Plan", "images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ImageSettings{RelativeFolderName: tt.tmpl}
			if got := s.RelativeImageFolder(tt.doc); got != tt.want {
				t.Errorf("RelativeImageFolder(%q) = %q, want %q", tt.doc, got, tt.want)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Editor.TabSize != 2 {
		t.Errorf("TabSize = %d, want 2", s.Editor.TabSize)
	}
	if s.Image.Action != ImageCopy {
		t.Errorf("Image.Action = %d, want ImageCopy", s.Image.Action)
	}
	if s.IsDark() {
		t.Error("default theme should not be dark")
	}
}
