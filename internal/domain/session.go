package domain

import "context"

// SessionInfo is the derived metadata returned when enumerating sessions.
// CreatedAt and LastActive are RFC 3339 strings taken from the first and
// last stored message, or empty when the session has no messages yet.
type SessionInfo struct {
	ID           string `json:"sessionId"`
	MessageCount int    `json:"messageCount"`
	CreatedAt    string `json:"createdAt,omitempty"`
	LastActive   string `json:"lastActive,omitempty"`
}

// SessionRepository persists per-session ordered message lists with a
// sliding TTL: every write resets the full expiry window.
//
// Append is a read-modify-write; concurrent appends to the same id may
// lose an update (last write wins). This is accepted given the low
// per-session write concurrency of a chat workload.
type SessionRepository interface {
	// Create initializes an empty message list. Overwrites any existing
	// session with the same id.
	Create(ctx context.Context, id string) error
	// Append adds a message, preserving prior messages and order.
	Append(ctx context.Context, id string, msg Message) error
	// Read returns the ordered messages, or an empty slice if absent.
	Read(ctx context.Context, id string) ([]Message, error)
	// Exists reports whether a non-expired session key is present,
	// independent of message count.
	Exists(ctx context.Context, id string) (bool, error)
	// Delete removes the session and reports whether a key was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// ListAll enumerates live sessions sorted by LastActive descending;
	// sessions without any timestamp sort last.
	ListAll(ctx context.Context) ([]SessionInfo, error)
	// DeleteAll removes every live session and returns the count removed.
	// Best effort: sessions created mid-sweep may be missed.
	DeleteAll(ctx context.Context) (int, error)
}
