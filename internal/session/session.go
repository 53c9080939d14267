// Package session persists order conversation state between turns, keyed
// by an opaque session key. The caller serializes turns: the store
// guarantees only that state saved at the end of turn N is the state
// loaded at the start of turn N+1 for the same key.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"orderbot/internal/order"
)

// ErrSessionNotFound is returned when a key has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// Session is one conversation's persisted record.
type Session struct {
	Key       string      `json:"key"`
	State     order.State `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store loads and saves sessions by key.
type Store interface {
	Load(ctx context.Context, key string) (Session, error)
	Save(ctx context.Context, sess Session) error
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh session key.
func NewKey() string {
	return uuid.NewString()
}
