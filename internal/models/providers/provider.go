package providers

import "context"

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is a single completion call
type Request struct {
	Messages    []Message
	JSON        bool
	Temperature float64
	MaxTokens   int
}

// Provider interface for LLM providers
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// System builds a system message
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
