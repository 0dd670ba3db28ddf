package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"cognitext/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// OpenFile opens a file in the user's preferred editor and waits for it
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if len(editor) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := append(editor[1:], path)
	cmd := exec.Command(editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command split into program and
// arguments, so values like "code --wait" work
func (o *Opener) findEditor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(o.getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(editor); err == nil {
			return []string{path}
		}
	}
	return nil
}
