package editor

import (
	"errors"
	"reflect"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		installed map[string]string
		wantArgs  []string
		wantErr   bool
	}{
		{
			name:     "editor variable",
			env:      map[string]string{"EDITOR": "hx"},
			wantArgs: []string{"hx", "/notes/a.md"},
		},
		{
			name:     "visual wins over editor",
			env:      map[string]string{"EDITOR": "vi", "VISUAL": "code --wait"},
			wantArgs: []string{"code", "--wait", "/notes/a.md"},
		},
		{
			name:      "fallback to installed editor",
			installed: map[string]string{"nano": "/usr/bin/nano"},
			wantArgs:  []string{"/usr/bin/nano", "/notes/a.md"},
		},
		{
			name:    "nothing available",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{
				getenv: func(key string) string { return tt.env[key] },
				lookPath: func(name string) (string, error) {
					if p, ok := tt.installed[name]; ok {
						return p, nil
					}
					return "", errors.New("not found")
				},
			}

			cmd, err := o.Command("/notes/a.md")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("Command() args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}
