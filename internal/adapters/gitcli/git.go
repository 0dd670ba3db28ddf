package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// Repo implements ports.VersionControl by running the git binary in the
// workspace folder
type Repo struct {
	dir    string
	binary string
}

// Ensure Repo implements VersionControl
var _ ports.VersionControl = (*Repo)(nil)

// NewRepo creates a git adapter for dir
func NewRepo(dir string) *Repo {
	return &Repo{dir: dir, binary: "git"}
}

// IsAvailable checks if git is installed
func (r *Repo) IsAvailable() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// IsRepository reports whether the workspace is inside a git work tree
func (r *Repo) IsRepository(ctx context.Context) bool {
	out, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// Init creates a repository in the workspace
func (r *Repo) Init(ctx context.Context) error {
	_, err := r.run(ctx, "init")
	return err
}

// Status lists changed and untracked files
func (r *Repo) Status(ctx context.Context) ([]domain.FileStatus, error) {
	out, err := r.run(ctx, "status", "--porcelain=v1", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return parseStatus(string(out)), nil
}

// AddAll stages every change, deletions included
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "--all")
	return err
}

// Commit records the staged changes and returns the short hash
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	if _, err := r.run(ctx, "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}
	out, err := r.run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// History returns the latest commits, newest first. A repository without
// commits has an empty history.
func (r *Repo) History(ctx context.Context, limit int) ([]domain.CommitInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	if _, err := r.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		return nil, nil
	}

	format := strings.Join([]string{"%H", "%an", "%at", "%s"}, fieldSep) + recordSep
	out, err := r.run(ctx, "log", "-n", strconv.Itoa(limit), "--format="+format)
	if err != nil {
		return nil, err
	}
	return parseLog(string(out))
}

func (r *Repo) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// parseStatus reads "git status --porcelain=v1" output. Renames report
// the new path.
func parseStatus(out string) []domain.FileStatus {
	var files []domain.FileStatus
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		code := strings.TrimSpace(line[:2])
		path := line[3:]
		if _, after, ok := strings.Cut(path, " -> "); ok {
			path = after
		}
		files = append(files, domain.FileStatus{
			Path:   unquote(path),
			Status: code,
		})
	}
	return files
}

// unquote undoes git's C-style quoting of unusual file names
func unquote(path string) string {
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		if s, err := strconv.Unquote(path); err == nil {
			return s
		}
	}
	return path
}

func parseLog(out string) ([]domain.CommitInfo, error) {
	var commits []domain.CommitInfo
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected git log record: %q", record)
		}
		unix, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid commit time %q: %w", fields[2], err)
		}
		commits = append(commits, domain.CommitInfo{
			Hash:    fields[0],
			Author:  fields[1],
			Time:    time.Unix(unix, 0),
			Message: fields[3],
		})
	}
	return commits, nil
}
