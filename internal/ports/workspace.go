package ports

import "cognitext/internal/domain"

// DocumentStore is the file access the tab manager needs
type DocumentStore interface {
	ReadFile(path string) (string, error)
	// WriteFile replaces the file content, creating it when missing
	WriteFile(path, content string) error
	// CreateBackup creates a new uniquely named file in the backups
	// directory and returns its path
	CreateBackup(content string) (string, error)
	Remove(path string) error
}

// WorkspaceRepository defines the storage operations over the workspace root
type WorkspaceRepository interface {
	DocumentStore

	Root() string
	// Resolve turns a workspace relative path into an absolute one,
	// refusing paths that escape the root
	Resolve(rel string) (string, error)
	// Contains reports whether an absolute path belongs to the workspace
	Contains(path string) bool

	// Tree operations
	BuildTree() (*domain.TreeNode, error)
	LoadChildren(node *domain.TreeNode) error

	// CreateFile fails with an already-exists error instead of overwriting
	CreateFile(path, content string) error
	CreateDir(path string) error
	// Rename never clobbers an existing destination
	Rename(oldPath, newPath string) error
	Delete(path string) error

	// ListMarkdown returns every markdown file below the root
	ListMarkdown() ([]string, error)

	// SaveImage stores image bytes for the document at docPath according
	// to the image settings and returns the markdown link target
	SaveImage(docPath, name string, data []byte, cfg domain.ImageSettings) (string, error)
}
