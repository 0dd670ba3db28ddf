package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

var driveLetter = regexp.MustCompile(`^[A-Za-z]:`)

// NormalizePath unifies separators, strips a Windows drive letter and
// resolves "." and ".." segments. The result always starts with "/".
func NormalizePath(raw string) string {
	path := strings.ReplaceAll(raw, `\`, "/")
	path = strings.TrimPrefix(path, "/")
	path = driveLetter.ReplaceAllString(path, "")

	var stack []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return "/" + strings.Join(stack, "/")
}

// IsSamePath compares two paths after normalisation
func IsSamePath(p1, p2 string) bool {
	return NormalizePath(p1) == NormalizePath(p2)
}

// FileNameWithoutExtension returns the last path element without its extension
func FileNameWithoutExtension(path string) string {
	name := filepath.Base(strings.ReplaceAll(path, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// EnsureMarkdownExt appends ".md" when the name has no markdown extension
func EnsureMarkdownExt(name string) string {
	if IsMarkdown(name) {
		return name
	}
	return name + ".md"
}
