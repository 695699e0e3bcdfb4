package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message senders. The wire values are part of the persisted session shape.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one turn in a chat session. Timestamp is an RFC 3339 string,
// matching the persisted JSON shape.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewMessage builds a message with a fresh id and the current time.
func NewMessage(sender, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}
}
