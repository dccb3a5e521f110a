package store

import (
	"context"
	"time"
)

// Message represents a persisted chat message.
type Message struct {
	ID        int64
	ChannelID string
	FromUser  string
	Body      string
	TS        int64 // unix milliseconds
	IsDM      bool
	Kind      string
	CreatedAt time.Time
}

// MessageStore handles message persistence. Persistence is append-mostly:
// messages are never mutated after creation.
type MessageStore interface {
	// Append persists a message and fills in its assigned ID.
	Append(ctx context.Context, msg *Message) error

	// ListByChannel retrieves up to limit messages for a channel in
	// ascending timestamp order. When the channel holds more than limit
	// messages the oldest are truncated, keeping the most recent limit
	// rows in chronological order. An unknown channel yields an empty
	// slice, never an error.
	ListByChannel(ctx context.Context, channelID string, limit int) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
