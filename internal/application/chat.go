package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"cognitext/internal/domain"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

const continueWritingPrompt = `Role: you are a professional writing assistant. Your task is to continue the user's text.
Requirements:
1. Continue in the same style, tone and logic as the text you are given.
2. Output markdown only.
3. Do not repeat any of the user's input, start right where it ends.
4. Write in the same language as the user's text.`

// ContinueWritingMessages builds the conversation asking the model to
// continue text
func ContinueWritingMessages(text string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: continueWritingPrompt},
		{Role: domain.RoleUser, Content: text},
	}
}

// ChatProgress is the state of a running continue-writing request
type ChatProgress struct {
	Thinking string // Reasoning so far, wrapped in <think> tags
	Content  string // Generated text so far
	Done     bool
}

// Display returns the text shown while streaming
func (p ChatProgress) Display() string {
	if p.Thinking == "" {
		return p.Content
	}
	return p.Thinking + "\n\n" + p.Content
}

// ChatService runs continue-writing requests against a chat provider.
// Only one request runs at a time; Abort cancels it.
type ChatService struct {
	provider ports.ChatProvider
	tabs     *TabManager
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewChatService creates a chat service writing into tabs
func NewChatService(provider ports.ChatProvider, tabs *TabManager, log *zap.Logger) *ChatService {
	return &ChatService{
		provider: provider,
		tabs:     tabs,
		logger:   logger.OrNop(log).Named("chat"),
	}
}

// SetProvider swaps the provider, used when chat settings change
func (c *ChatService) SetProvider(provider ports.ChatProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = provider
}

// Running reports whether a request is in flight
func (c *ChatService) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Abort cancels the running request, if any
func (c *ChatService) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.logger.Info("chat request aborted")
		c.cancel()
	}
}

// ContinueWriting streams a continuation of text. onProgress receives the
// accumulated state after every chunk. The returned string holds the
// generated content without the reasoning.
func (c *ChatService) ContinueWriting(ctx context.Context, text string, onProgress func(ChatProgress)) (string, error) {
	if err := ValidateRequired("text", text); err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return "", ErrChatBusy
	}
	if c.provider == nil || !c.provider.IsAvailable() {
		c.mu.Unlock()
		return "", fmt.Errorf("chat provider: %w", ErrUnsupported)
	}
	provider := c.provider
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.cancel = nil
		c.mu.Unlock()
		cancel()
	}()

	var thinking, content strings.Builder
	progress := func(done bool) ChatProgress {
		p := ChatProgress{Content: content.String(), Done: done}
		if thinking.Len() > 0 {
			p.Thinking = "<think>" + thinking.String()
			if content.Len() > 0 || done {
				p.Thinking += "</think>"
			}
		}
		return p
	}

	err := provider.Stream(ctx, ContinueWritingMessages(text), func(chunk domain.ChatChunk) {
		thinking.WriteString(chunk.Reasoning)
		content.WriteString(chunk.Content)
		if onProgress != nil {
			onProgress(progress(false))
		}
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Info("continue writing cancelled", zap.Int("generated", content.Len()))
		} else {
			c.logger.Error("continue writing failed", zap.Error(err))
		}
		return content.String(), err
	}

	if onProgress != nil {
		onProgress(progress(true))
	}
	c.logger.Info("continue writing finished", zap.Int("generated", content.Len()))
	return content.String(), nil
}

// ContinueActive continues the active document and appends the generated
// text to it. On failure or abort the document is left untouched.
func (c *ChatService) ContinueActive(ctx context.Context, onProgress func(ChatProgress)) (string, error) {
	doc, ok := c.tabs.Active()
	if !ok {
		return "", ErrNoActiveTab
	}

	generated, err := c.ContinueWriting(ctx, doc.Content, onProgress)
	if err != nil {
		return "", err
	}
	if generated == "" {
		return "", nil
	}

	current, ok := c.tabs.Get(doc.ID)
	if !ok {
		return "", fmt.Errorf("tab %s: %w", doc.ID, ErrNotFound)
	}
	if err := c.tabs.Edit(doc.ID, AppendGenerated(current.Content, generated)); err != nil {
		return "", err
	}
	return generated, nil
}

// AppendGenerated joins generated text onto a document, separating it
// from the last line when needed
func AppendGenerated(content, generated string) string {
	if content == "" || strings.HasSuffix(content, "\n") || strings.HasPrefix(generated, "\n") {
		return content + generated
	}
	return content + "\n" + generated
}
