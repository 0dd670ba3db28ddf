package domain

import "testing"

func buildTestTree() *TreeNode {
	root := &TreeNode{Kind: KindRoot, Name: "notes", Path: "/notes", IsExpanded: true}
	folder := &TreeNode{Kind: KindFolder, Name: "journal", Path: "/notes/journal", Parent: root}
	file := &TreeNode{Kind: KindFile, Name: "day1.md", Path: "/notes/journal/day1.md", Parent: folder}
	folder.Children = []*TreeNode{file}
	top := &TreeNode{Kind: KindFile, Name: "ideas.md", Path: "/notes/ideas.md", Parent: root}
	root.Children = []*TreeNode{folder, top}
	return root
}

func TestTreeNode_Flatten(t *testing.T) {
	root := buildTestTree()

	if got := len(root.Flatten()); got != 3 {
		t.Errorf("collapsed folder: Flatten() len = %d, want 3", got)
	}

	root.Children[0].Toggle()
	if got := len(root.Flatten()); got != 4 {
		t.Errorf("expanded folder: Flatten() len = %d, want 4", got)
	}

	root.Children[0].Collapse()
	if root.Children[0].IsExpanded {
		t.Error("Collapse() should clear IsExpanded")
	}
}

func TestTreeNode_DepthAndRelPath(t *testing.T) {
	root := buildTestTree()
	file := root.Children[0].Children[0]

	if got := file.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	if got := file.RelPath(); got != "journal/day1.md" {
		t.Errorf("RelPath() = %q, want journal/day1.md", got)
	}
	if got := root.RelPath(); got != "" {
		t.Errorf("root RelPath() = %q, want empty", got)
	}
}

func TestTreeNode_Find(t *testing.T) {
	root := buildTestTree()

	if n := root.Find("/notes/journal/./day1.md"); n == nil || n.Name != "day1.md" {
		t.Errorf("Find() = %v, want day1.md", n)
	}
	if n := root.Find("/notes/missing.md"); n != nil {
		t.Errorf("Find() = %v, want nil", n)
	}
}

func TestSkipEntry(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".git", true},
		{".", true},
		{"assets", true},
		{"Ideas.assets", true},
		{"journal", false},
		{"ideas.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkipEntry(tt.name); got != tt.want {
				t.Errorf("SkipEntry(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSortNodes(t *testing.T) {
	nodes := []*TreeNode{
		{Kind: KindFile, Name: "b.md"},
		{Kind: KindFolder, Name: "Zeta"},
		{Kind: KindFile, Name: "A.md"},
		{Kind: KindFolder, Name: "alpha"},
	}

	SortNodes(nodes)

	want := []string{"alpha", "Zeta", "A.md", "b.md"}
	for i, name := range want {
		if nodes[i].Name != name {
			t.Errorf("nodes[%d] = %q, want %q", i, nodes[i].Name, name)
		}
	}
}
