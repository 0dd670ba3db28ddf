package reveal

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"cognitext/internal/ports"
)

// Opener implements ports.Revealer with the platform's file manager
type Opener struct {
	goos string
	run  func(cmd *exec.Cmd) error
}

// Ensure Opener implements Revealer
var _ ports.Revealer = (*Opener)(nil)

// NewOpener creates a new opener for the running platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run:  (*exec.Cmd).Run,
	}
}

// Reveal opens the file manager on the folder containing path, selecting
// the file where the platform supports it
func (o *Opener) Reveal(path string) error {
	cmd, err := o.RevealCommand(path)
	if err != nil {
		return err
	}
	return o.run(cmd)
}

// OpenDefault opens path with the system default application
func (o *Opener) OpenDefault(path string) error {
	cmd, err := o.OpenCommand(path)
	if err != nil {
		return err
	}
	return o.run(cmd)
}

// RevealCommand builds the command used by Reveal
func (o *Opener) RevealCommand(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", "-R", path), nil
	case "windows":
		return exec.Command("explorer", "/select,"+path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", filepath.Dir(path)), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}

// OpenCommand builds the command used by OpenDefault
func (o *Opener) OpenCommand(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
