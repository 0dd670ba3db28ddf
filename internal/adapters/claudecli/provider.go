package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// Provider implements ports.ChatProvider using the Claude Code CLI.
// The CLI answers in one piece, so Stream delivers a single chunk.
type Provider struct {
	model  string
	binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Ensure Provider implements ChatProvider
var _ ports.ChatProvider = (*Provider)(nil)

// Option configures the Provider
type Option func(*Provider)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBinary sets the CLI executable name or path
func WithBinary(binary string) Option {
	return func(p *Provider) {
		p.binary = binary
	}
}

// NewProvider creates a new Claude CLI chat provider
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		model:  "haiku", // Default to haiku for speed
		binary: "claude",
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	IsError    bool    `json:"is_error"`
	DurationMS int     `json:"duration_ms"`
	NumTurns   int     `json:"num_turns"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	CostUSD    float64 `json:"total_cost_usd"`
}

// Stream sends the conversation to the CLI. Cancelling ctx kills the
// process.
func (p *Provider) Stream(ctx context.Context, messages []domain.ChatMessage, onChunk func(domain.ChatChunk)) error {
	system, prompt := splitMessages(messages)
	if prompt == "" {
		return fmt.Errorf("claude CLI: empty prompt")
	}

	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", p.model,
	}
	if system != "" {
		args = append(args, "--append-system-prompt", system)
	}

	output, err := p.run(ctx, p.binary, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("claude CLI error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return fmt.Errorf("claude CLI error: %w", err)
	}

	text, err := parseResult(output)
	if err != nil {
		return err
	}
	if text != "" {
		onChunk(domain.ChatChunk{Content: text})
	}
	return nil
}

// IsAvailable checks if the claude CLI is installed and accessible
func (p *Provider) IsAvailable() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// splitMessages joins system messages into one system prompt and the rest
// into the user prompt
func splitMessages(messages []domain.ChatMessage) (string, string) {
	var system, prompt []string
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		prompt = append(prompt, m.Content)
	}
	return strings.Join(system, "\n\n"), strings.Join(prompt, "\n\n")
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:markdown|md)?\\s*\\n(.*?)\\n?```$")

// parseResult extracts the generated text from the CLI JSON output,
// unwrapping a markdown code block around the whole answer
func parseResult(output []byte) (string, error) {
	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return "", fmt.Errorf("failed to parse claude response: %w", err)
	}
	if response.IsError {
		return "", fmt.Errorf("claude returned an error: %s", response.Result)
	}

	result := strings.TrimSpace(response.Result)
	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = matches[1]
	}
	return result, nil
}
