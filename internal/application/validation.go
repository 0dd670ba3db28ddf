package application

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "tabID" -> "tab ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"tabID":   "tab ID",
		"path":    "path",
		"newName": "new name",
		"name":    "name",
		"query":   "query",
		"message": "commit message",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateFileName rejects names that would leave their folder or that the
// tree would hide.
func ValidateFileName(fieldName, name string) error {
	if err := ValidateRequired(fieldName, name); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(name)
	if strings.ContainsAny(trimmed, `/\`) || trimmed == "." || trimmed == ".." {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %s", formatFieldName(fieldName), name),
		}
	}
	if strings.HasPrefix(trimmed, ".") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s cannot start with a dot", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateRelativePath rejects absolute paths and paths escaping the workspace
func ValidateRelativePath(fieldName, rel string) error {
	if err := ValidateRequired(fieldName, rel); err != nil {
		return err
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must stay inside the workspace: %s", formatFieldName(fieldName), rel),
		}
	}
	return nil
}
