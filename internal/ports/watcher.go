package ports

import "context"

// FileWatcher reports changes below watched paths
type FileWatcher interface {
	Add(path string) error
	// Run delivers changed paths to onChange until ctx is done
	Run(ctx context.Context, onChange func(path string)) error
	Close() error
}
