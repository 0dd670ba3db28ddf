package domain

import "time"

// FileStatus is one entry of the working tree status
type FileStatus struct {
	Path   string
	Status string // Porcelain code, e.g. "M", "A", "??"
}

// CommitInfo is one entry of the commit history
type CommitInfo struct {
	Hash    string
	Author  string
	Message string
	Time    time.Time
}
