package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cognitext/internal/domain"
)

func TestStream(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"reasoning_content":"hmm"}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"Hello"}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":" world"},"finish_reason":"stop"}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	p := NewProvider(server.URL+"/", "secret", "test-model")
	var chunks []domain.ChatChunk
	err := p.Stream(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}, func(c domain.ChatChunk) {
		chunks = append(chunks, c)
	})

	require.NoError(t, err)
	assert.Equal(t, "test-model", got.Model)
	assert.True(t, got.Stream)
	require.Len(t, got.Messages, 1)
	require.Len(t, chunks, 3)
	assert.Equal(t, "hmm", chunks[0].Reasoning)
	assert.Equal(t, "Hello", chunks[1].Content)
	assert.Equal(t, " world", chunks[2].Content)
}

func TestStream_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"auth"}}`)
	}))
	defer server.Close()

	err := NewProvider(server.URL, "bad", "").Stream(context.Background(), nil, func(domain.ChatChunk) {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestStream_Cancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"partial"}}]}`+"\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewProvider(server.URL, "k", "").Stream(ctx, nil, func(domain.ChatChunk) {
			cancel()
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("stream was not cancelled")
	}
}

func TestIsAvailable(t *testing.T) {
	assert.False(t, NewProvider("", "", "").IsAvailable())
	assert.False(t, NewProvider("", "  ", "").IsAvailable())
	assert.True(t, NewProvider("", "key", "").IsAvailable())
}

func TestNewProvider_Defaults(t *testing.T) {
	p := NewProvider("", "", "")

	assert.Equal(t, DefaultBaseURL, p.BaseURL)
	assert.Equal(t, DefaultModel, p.Model)
}
