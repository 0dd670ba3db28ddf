package ports

import "os/exec"

// EditorOpener hands a document to an external editor
type EditorOpener interface {
	// OpenFile runs the editor on path and waits for it to exit
	OpenFile(path string) error

	// Command builds the editor process for bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
