package claudecli

import (
	"context"
	"errors"
	"testing"

	"cognitext/internal/domain"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "plain result",
			output: `{"type":"result","is_error":false,"result":"More text."}`,
			want:   "More text.",
		},
		{
			name:   "markdown code block",
			output: "{\"result\":\"```markdown\\n## Next\\nBody\\n```\"}",
			want:   "## Next\nBody",
		},
		{
			name:   "code block without language",
			output: "{\"result\":\"```\\nBody\\n```\"}",
			want:   "Body",
		},
		{
			name:   "inner code block kept",
			output: "{\"result\":\"Text\\n```go\\nx := 1\\n```\\nMore\"}",
			want:   "Text\n```go\nx := 1\n```\nMore",
		},
		{
			name:    "error result",
			output:  `{"is_error":true,"result":"rate limited"}`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			output:  `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResult([]byte(tt.output))

			if (err != nil) != tt.wantErr {
				t.Errorf("parseResult() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("parseResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStream_BuildsArguments(t *testing.T) {
	var gotName string
	var gotArgs []string
	p := NewProvider(WithModel("sonnet"))
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(`{"result":"continued"}`), nil
	}

	var chunks []domain.ChatChunk
	err := p.Stream(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "# Title"},
	}, func(c domain.ChatChunk) {
		chunks = append(chunks, c)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotName != "claude" {
		t.Errorf("binary = %q, want claude", gotName)
	}
	want := []string{"-p", "# Title", "--output-format", "json", "--model", "sonnet", "--append-system-prompt", "be brief"}
	if len(gotArgs) != len(want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, gotArgs[i], want[i])
		}
	}
	if len(chunks) != 1 || chunks[0].Content != "continued" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestStream_Cancelled(t *testing.T) {
	p := NewProvider()
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("signal: killed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Stream(ctx, []domain.ChatMessage{{Role: domain.RoleUser, Content: "x"}}, func(domain.ChatChunk) {
		t.Error("no chunk expected")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStream_EmptyPrompt(t *testing.T) {
	p := NewProvider()

	err := p.Stream(context.Background(), []domain.ChatMessage{{Role: domain.RoleSystem, Content: "only system"}}, nil)

	if err == nil {
		t.Error("expected error for empty prompt")
	}
}
