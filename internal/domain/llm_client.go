package domain

import "context"

// Chat roles understood by the language model.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one prior turn passed to the model as conversational
// context.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatResult is the model's reply. Blocked is set when the provider's
// policy filter refused the prompt or the response; BlockReason carries
// the provider's reason when one was given.
type ChatResult struct {
	Text        string
	Blocked     bool
	BlockReason string
}

// LLMClient sends a prompt plus seeded history to the language model.
// Transport and provider failures surface as errors; policy blocks are a
// normal ChatResult outcome, not an error.
type LLMClient interface {
	Chat(ctx context.Context, history []ChatMessage, prompt string) (*ChatResult, error)
}
