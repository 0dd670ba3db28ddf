package chatprovider

import (
	"cognitext/internal/adapters/claudecli"
	"cognitext/internal/adapters/openai"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// New builds the chat provider named by the chat settings. DeepSeek and
// OpenAI share the chat completions API; unknown providers fall back to it.
func New(chat domain.ChatSettings) ports.ChatProvider {
	switch chat.Provider {
	case domain.ProviderClaudeCLI:
		var opts []claudecli.Option
		if chat.Model != "" {
			opts = append(opts, claudecli.WithModel(chat.Model))
		}
		return claudecli.NewProvider(opts...)
	default:
		return openai.NewProvider(chat.BaseURL, chat.APIKey, chat.Model)
	}
}
