package domain

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one message of a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatChunk is a streamed piece of a chat answer. Reasoning carries the
// model's thinking output for providers that expose it.
type ChatChunk struct {
	Content   string
	Reasoning string
}
