// Package storage provides abstractions for wizard session storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplittr/internal/wizard"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for session storage operations.
// Sessions only live for the duration of a visit; implementations are free to
// evict idle ones.
type Store interface {
	// Create stores a new session under session.ID.
	Create(ctx context.Context, session *wizard.Session) error

	// Get returns a copy of the session.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*wizard.Session, error)

	// Update applies fn to the session atomically and returns a copy of the result.
	// If fn returns an error the session is left unchanged and the error is returned.
	Update(ctx context.Context, id string, fn func(*wizard.Session) error) (*wizard.Session, error)

	// Delete removes the session.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
