package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "name",
			value:     "Ideas",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "name",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "name",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain name", "Ideas.md", false},
		{"with spaces", "Meeting notes", false},
		{"slash", "a/b.md", true},
		{"backslash", `a\b.md`, true},
		{"dot dot", "..", true},
		{"hidden", ".secret", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileName("name", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelativePath(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"nested", "journal/day1.md", false},
		{"dot segments inside", "journal/../ideas.md", false},
		{"absolute", "/etc/passwd", true},
		{"escapes root", "../outside.md", true},
		{"parent only", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelativePath("path", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelativePath(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSaveError_Unwrap(t *testing.T) {
	err := &SaveError{Path: "/notes/a.md", Err: ErrNotFound}
	if !errors.Is(err, ErrNotFound) {
		t.Error("SaveError should unwrap to its cause")
	}
}
