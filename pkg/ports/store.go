package ports

import (
	"context"

	"github.com/peopleops/intake/pkg/domain"
)

// SessionStore persists wizard sessions between invocations, keyed by an
// opaque conversation/thread identifier. Save overwrites the whole session
// document atomically; readers never observe a partial write.
type SessionStore interface {
	// Save persists the session for a given thread ID.
	Save(ctx context.Context, threadID string, session *domain.WizardSession) error

	// Load retrieves the session for a given thread ID.
	// Returns domain.ErrSessionNotFound if no session exists.
	Load(ctx context.Context, threadID string) (*domain.WizardSession, error)

	// Delete removes the session for a given thread ID.
	Delete(ctx context.Context, threadID string) error

	// List returns the thread IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
