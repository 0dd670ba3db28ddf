package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cognitext/internal/ports"
)

// CommitResult contains the result of a commit operation
type CommitResult struct {
	Hash    string
	Files   int
	Message string
}

// CommitCommand stages every change in the workspace and commits it
type CommitCommand struct {
	vcs     ports.VersionControl
	Message string
	now     func() time.Time
}

// NewCommitCommand creates a new CommitCommand. An empty message is
// replaced by a timestamped one.
func NewCommitCommand(vcs ports.VersionControl, message string) *CommitCommand {
	return &CommitCommand{
		vcs:     vcs,
		Message: message,
		now:     time.Now,
	}
}

// Execute runs the commit command
func (c *CommitCommand) Execute(ctx context.Context) (*CommitResult, error) {
	if !c.vcs.IsRepository(ctx) {
		if err := c.vcs.Init(ctx); err != nil {
			return nil, fmt.Errorf("failed to init repository: %w", err)
		}
	}

	status, err := c.vcs.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	if len(status) == 0 {
		return &CommitResult{Message: "Nothing to commit"}, nil
	}

	if err := c.vcs.AddAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to stage changes: %w", err)
	}

	message := strings.TrimSpace(c.Message)
	if message == "" {
		message = "Update notes " + c.now().Format("2006-01-02 15:04")
	}

	hash, err := c.vcs.Commit(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &CommitResult{
		Hash:    hash,
		Files:   len(status),
		Message: fmt.Sprintf("Committed %d file(s): %s", len(status), message),
	}, nil
}
