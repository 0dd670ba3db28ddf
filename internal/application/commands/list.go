package commands

import (
	"context"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// BuildTreeCommand builds the root of the workspace tree
type BuildTreeCommand struct {
	repo ports.WorkspaceRepository
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(repo ports.WorkspaceRepository) *BuildTreeCommand {
	return &BuildTreeCommand{repo: repo}
}

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	return c.repo.BuildTree()
}

// ExpandAllCommand loads the whole tree below the root, expanded
type ExpandAllCommand struct {
	repo ports.WorkspaceRepository
}

// NewExpandAllCommand creates a new ExpandAllCommand
func NewExpandAllCommand(repo ports.WorkspaceRepository) *ExpandAllCommand {
	return &ExpandAllCommand{repo: repo}
}

// Execute runs the expand all command
func (c *ExpandAllCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	root, err := c.repo.BuildTree()
	if err != nil {
		return nil, err
	}
	if err := c.expand(ctx, root); err != nil {
		return nil, err
	}
	return root, nil
}

func (c *ExpandAllCommand) expand(ctx context.Context, node *domain.TreeNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !node.IsDir() {
		return nil
	}
	if !node.Loaded {
		if err := c.repo.LoadChildren(node); err != nil {
			return err
		}
	}
	node.Expand()
	for _, child := range node.Children {
		if err := c.expand(ctx, child); err != nil {
			return err
		}
	}
	return nil
}
