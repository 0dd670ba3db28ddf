package domain

import (
	"slices"
	"strings"
)

// NodeKind tells folders and files apart in the workspace tree
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindFolder
	KindFile
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindFolder:
		return "Folder"
	case KindFile:
		return "File"
	default:
		return "Unknown"
	}
}

// TreeNode represents a node in the workspace tree for navigation
type TreeNode struct {
	Kind       NodeKind
	Name       string // Entry name, e.g. "Ideas.md"
	Path       string // Absolute path
	Children   []*TreeNode
	IsExpanded bool
	Loaded     bool // Children have been read from disk
	Parent     *TreeNode
}

// IsDir reports whether the node can hold children
func (n *TreeNode) IsDir() bool {
	return n.Kind == KindRoot || n.Kind == KindFolder
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// Find returns the loaded node with the given path, or nil
func (n *TreeNode) Find(path string) *TreeNode {
	if IsSamePath(n.Path, path) {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// RelPath returns the node path relative to the tree root, slash separated
func (n *TreeNode) RelPath() string {
	var segments []string
	for cur := n; cur != nil && cur.Kind != KindRoot; cur = cur.Parent {
		segments = append(segments, cur.Name)
	}
	slices.Reverse(segments)
	return strings.Join(segments, "/")
}

// SkipEntry reports whether a directory entry is hidden from the tree:
// dot entries, "assets" folders and "<name>.assets" image folders.
func SkipEntry(name string) bool {
	return strings.HasPrefix(name, ".") ||
		name == "assets" ||
		strings.Contains(name, ".assets")
}

// IsMarkdown reports whether a file name has a markdown extension
func IsMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// SortNodes puts folders first, then files, each group ordered by name
// case-insensitively.
func SortNodes(nodes []*TreeNode) {
	slices.SortStableFunc(nodes, func(a, b *TreeNode) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}
