package ports

import (
	"context"

	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
)

// SessionStore defines the interface for persisting conversation state.
// The engine never talks to a store directly; all access goes through the
// session manager so that each session's read-modify-write is atomic.
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of known sessions.
	List(ctx context.Context) ([]string, error)
}
