package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

const (
	DefaultBaseURL = "https://api.deepseek.com"
	DefaultModel   = "deepseek-chat"
)

// Provider streams chat completions from an OpenAI compatible API
// (DeepSeek, OpenAI and most local servers)
type Provider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

// Ensure Provider implements ChatProvider
var _ ports.ChatProvider = (*Provider)(nil)

// NewProvider creates a provider. Empty values fall back to the DeepSeek
// defaults. No client timeout is set: streams end with the context.
func NewProvider(baseURL, apiKey, model string) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{},
	}
}

// --- Request/Response structs ---

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// IsAvailable reports whether an API key is configured
func (p *Provider) IsAvailable() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// Stream posts messages to /chat/completions with stream enabled and
// calls onChunk for every server-sent delta
func (p *Provider) Stream(ctx context.Context, messages []domain.ChatMessage, onChunk func(domain.ChatChunk)) error {
	payload, err := json.Marshal(chatRequest{
		Model:    p.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	err = readEvents(resp.Body, func(data []byte) error {
		var chunk chatChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return fmt.Errorf("unmarshal chunk: %w", err)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" && choice.Delta.ReasoningContent == "" {
				continue
			}
			onChunk(domain.ChatChunk{
				Content:   choice.Delta.Content,
				Reasoning: choice.Delta.ReasoningContent,
			})
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// readEvents calls onData with the payload of every "data:" line until
// the "[DONE]" marker or the end of the body
func readEvents(body io.Reader, onData func([]byte) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == ':' {
			continue // Event separator or keep-alive comment
		}
		data, ok := bytes.CutPrefix(line, []byte("data:"))
		if !ok {
			continue
		}
		data = bytes.TrimSpace(data)
		if string(data) == "[DONE]" {
			return nil
		}
		if err := onData(data); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("chat error: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("chat error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
