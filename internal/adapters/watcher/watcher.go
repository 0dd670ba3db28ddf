package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"cognitext/internal/domain"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher implements ports.FileWatcher with fsnotify. Folders are watched
// recursively (hidden folders skipped) and report markdown changes;
// single files are watched through their parent folder so editors that
// replace the file on save are still seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	roots []string
	files map[string]bool
}

// Ensure Watcher implements FileWatcher
var _ ports.FileWatcher = (*Watcher)(nil)

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets how long a burst of events is collected before the
// changed paths are reported
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger for watcher errors
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher with nothing watched yet
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: defaultDebounce,
		files:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.OrNop(w.logger).Named("watcher")
	return w, nil
}

// Add watches a folder tree or a single file
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !info.IsDir() {
		w.files[path] = true
		return w.fsw.Add(filepath.Dir(path))
	}

	w.roots = append(w.roots, path)
	return w.addTree(path)
}

// addTree adds path and its subfolders, skipping hidden ones
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run reports changed paths until ctx is done or the watcher is closed.
// Events are coalesced per path for the debounce interval and delivered
// in sorted order on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil // Watcher closed
			}
			if path, ok := w.relevant(event); ok {
				pending[path] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil // Watcher closed
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			for _, p := range paths {
				onChange(p)
			}
		}
	}
}

// relevant filters an event down to the paths callers care about and
// starts watching folders created inside a watched tree
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[path] {
		return path, true
	}
	rel, ok := w.relToTree(path)
	if !ok || hidden(rel) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new folder", zap.String("path", path), zap.Error(err))
			}
			return path, true
		}
	}

	// Removed or renamed entries may be folders holding notes
	if domain.IsMarkdown(path) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return path, true
	}
	return "", false
}

// relToTree returns path relative to the watched folder containing it
func (w *Watcher) relToTree(path string) (string, bool) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rel, true
		}
	}
	return "", false
}

// hidden reports whether any element of path starts with a dot
func hidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// Close stops the watcher and ends Run
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
