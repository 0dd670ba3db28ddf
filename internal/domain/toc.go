package domain

import "fmt"

// HeadingEntry is a heading found in a markdown document
type HeadingEntry struct {
	Key   string // Stable key, e.g. "heading-3"
	Text  string
	Level int // 1..6
}

// Tag returns the html tag name for the heading level
func (h HeadingEntry) Tag() string {
	return fmt.Sprintf("h%d", h.Level)
}

// TOCNode is a heading with its nested sub headings
type TOCNode struct {
	HeadingEntry
	Children []*TOCNode
	parent   *TOCNode
}

// BuildTOCTree nests a flat list of headings.
// An h1 or the first heading starts a new root. A heading at the same
// level as the previous one becomes its sibling, a deeper one becomes its
// child, and a shallower one is attached under the nearest ancestor that
// is shallower than it (or becomes a root when there is none).
func BuildTOCTree(entries []HeadingEntry) []*TOCNode {
	var roots []*TOCNode
	var last *TOCNode

	for _, entry := range entries {
		node := &TOCNode{HeadingEntry: entry}

		switch {
		case entry.Level == 1 || last == nil:
			roots = append(roots, node)
		case entry.Level == last.Level:
			attach(&roots, last.parent, node)
		case entry.Level < last.Level:
			attach(&roots, nearestParent(last, entry.Level), node)
		default:
			attach(&roots, last, node)
		}
		last = node
	}
	return roots
}

func attach(roots *[]*TOCNode, parent, node *TOCNode) {
	if parent == nil {
		*roots = append(*roots, node)
		return
	}
	node.parent = parent
	parent.Children = append(parent.Children, node)
}

func nearestParent(from *TOCNode, level int) *TOCNode {
	for cur := from.parent; cur != nil; cur = cur.parent {
		if cur.Level < level {
			return cur
		}
	}
	return nil
}

// FlattenTOC walks the tree depth first, returning each node with its depth
func FlattenTOC(roots []*TOCNode) []TOCLine {
	var out []TOCLine
	var walk func(nodes []*TOCNode, depth int)
	walk = func(nodes []*TOCNode, depth int) {
		for _, n := range nodes {
			out = append(out, TOCLine{Entry: n.HeadingEntry, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	return out
}

// TOCLine is one rendered row of a table of contents
type TOCLine struct {
	Entry HeadingEntry
	Depth int
}
