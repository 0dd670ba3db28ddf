package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cognitext/internal/config"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// Repository implements ports.WorkspaceRepository using the filesystem
type Repository struct {
	root       string
	backupsDir string
}

// Ensure Repository implements WorkspaceRepository
var _ ports.WorkspaceRepository = (*Repository)(nil)

// NewRepository creates a new filesystem repository rooted at root.
// New documents are backed by files in backupsDir.
func NewRepository(root, backupsDir string) *Repository {
	root = config.ExpandHome(root)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Repository{root: root, backupsDir: backupsDir}
}

// Root returns the absolute workspace root
func (r *Repository) Root() string {
	return r.root
}

// Resolve turns a workspace relative path into an absolute one
func (r *Repository) Resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		if !r.contains(rel) {
			return "", fmt.Errorf("%s is outside the workspace", rel)
		}
		return filepath.Clean(rel), nil
	}
	abs := filepath.Join(r.root, filepath.FromSlash(rel))
	if !r.contains(abs) {
		return "", fmt.Errorf("%s is outside the workspace", rel)
	}
	return abs, nil
}

func (r *Repository) contains(path string) bool {
	return within(r.root, path)
}

// Contains reports whether path is a workspace file. Backups of unsaved
// documents are not part of the workspace even when the backups
// directory sits below the root.
func (r *Repository) Contains(path string) bool {
	if !filepath.IsAbs(path) || !r.contains(path) {
		return false
	}
	return r.backupsDir == "" || !within(r.backupsDir, path)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// BuildTree returns the root node with its first level loaded
func (r *Repository) BuildTree() (*domain.TreeNode, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace %s is not a directory", r.root)
	}

	root := &domain.TreeNode{
		Kind:       domain.KindRoot,
		Name:       filepath.Base(r.root),
		Path:       r.root,
		IsExpanded: true,
	}
	if err := r.LoadChildren(root); err != nil {
		return nil, err
	}
	return root, nil
}

// LoadChildren reads the entries of a folder node.
// Hidden entries and image asset folders are skipped.
func (r *Repository) LoadChildren(node *domain.TreeNode) error {
	if !node.IsDir() || node.Loaded {
		return nil // Already loaded
	}

	entries, err := os.ReadDir(node.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", node.Path, err)
	}

	children := make([]*domain.TreeNode, 0, len(entries))
	for _, entry := range entries {
		if domain.SkipEntry(entry.Name()) {
			continue
		}
		kind := domain.KindFile
		if entry.IsDir() {
			kind = domain.KindFolder
		}
		children = append(children, &domain.TreeNode{
			Kind:   kind,
			Name:   entry.Name(),
			Path:   filepath.Join(node.Path, entry.Name()),
			Parent: node,
		})
	}
	domain.SortNodes(children)

	node.Children = children
	node.Loaded = true
	return nil
}

// Reload forgets the children of a node and reads them again, keeping
// the expansion state of folders that still exist
func (r *Repository) Reload(node *domain.TreeNode) error {
	expanded := make(map[string]*domain.TreeNode)
	for _, child := range node.Children {
		if child.IsDir() && child.Loaded {
			expanded[child.Name] = child
		}
	}

	node.Children = nil
	node.Loaded = false
	if err := r.LoadChildren(node); err != nil {
		return err
	}

	for _, child := range node.Children {
		if prev, ok := expanded[child.Name]; ok {
			child.IsExpanded = prev.IsExpanded
			if err := r.Reload(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile returns the content of a file
func (r *Repository) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces a file through a temporary file and rename, so a
// crash never leaves a half written document
func (r *Repository) WriteFile(path, content string) error {
	return writeAtomic(path, []byte(content))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	mode := os.FileMode(config.FilePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// CreateFile creates a new file, failing if one already exists
func (r *Repository) CreateFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, config.FilePermissions)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// CreateDir creates a new folder, failing if the path already exists
func (r *Repository) CreateDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create parent folder: %w", err)
	}
	return os.Mkdir(path, config.DirPermissions)
}

// Rename moves oldPath to newPath without replacing an existing entry.
// Files are hard linked then unlinked, which fails atomically when the
// destination exists.
func (r *Repository) Rename(oldPath, newPath string) error {
	info, err := os.Lstat(oldPath)
	if err != nil {
		return err
	}
	if domain.IsSamePath(oldPath, newPath) {
		return nil
	}

	if info.Mode().IsRegular() {
		err := os.Link(oldPath, newPath)
		if err == nil {
			return os.Remove(oldPath)
		}
		if errors.Is(err, fs.ErrExist) {
			return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrExist}
		}
		// Filesystems without hard links fall through to a checked rename
	}

	if _, err := os.Lstat(newPath); err == nil {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrExist}
	}
	return os.Rename(oldPath, newPath)
}

// Delete removes a file or a folder with its content
func (r *Repository) Delete(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// Remove deletes a single file
func (r *Repository) Remove(path string) error {
	return os.Remove(path)
}

// CreateBackup creates a uniquely named markdown file in the backups
// directory
func (r *Repository) CreateBackup(content string) (string, error) {
	if err := os.MkdirAll(r.backupsDir, config.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create backups directory: %w", err)
	}

	path := filepath.Join(r.backupsDir, uuid.NewString()+".md")
	if err := r.CreateFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// ListMarkdown returns every markdown file below the root, skipping
// hidden files and folders
func (r *Repository) ListMarkdown() ([]string, error) {
	var files []string

	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			if path != r.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if domain.IsMarkdown(d.Name()) && !strings.HasPrefix(d.Name(), ".") {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
