package reveal

import (
	"os/exec"
	"reflect"
	"testing"
)

func TestRevealCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		path     string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "macOS selects the file",
			goos:     "darwin",
			path:     "/Users/test/notes/a.md",
			wantArgs: []string{"open", "-R", "/Users/test/notes/a.md"},
		},
		{
			name:     "linux opens the folder",
			goos:     "linux",
			path:     "/home/test/notes/a.md",
			wantArgs: []string{"xdg-open", "/home/test/notes"},
		},
		{
			name:     "windows selects the file",
			goos:     "windows",
			path:     `C:\notes\a.md`,
			wantArgs: []string{"explorer", `/select,C:\notes\a.md`},
		},
		{
			name:    "unsupported",
			goos:    "plan9",
			path:    "/notes/a.md",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{goos: tt.goos}
			cmd, err := o.RevealCommand(tt.path)

			if (err != nil) != tt.wantErr {
				t.Fatalf("RevealCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("RevealCommand() args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestOpenDefault_RunsCommand(t *testing.T) {
	var ran []string
	o := &Opener{
		goos: "linux",
		run: func(cmd *exec.Cmd) error {
			ran = cmd.Args
			return nil
		},
	}

	if err := o.OpenDefault("/notes/a.md"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"xdg-open", "/notes/a.md"}
	if !reflect.DeepEqual(ran, want) {
		t.Errorf("ran %v, want %v", ran, want)
	}
}
