package memory

import (
	"context"
	"sync"

	"github.com/peopleops/intake/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.WizardSession
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.WizardSession),
	}
}

// Save persists the session in memory. The stored value is a deep copy so
// the caller cannot mutate it afterwards through the original pointer.
func (s *Store) Save(ctx context.Context, threadID string, session *domain.WizardSession) error {
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[threadID] = copied
	return nil
}

// Load retrieves the session from memory, returning a copy.
func (s *Store) Load(ctx context.Context, threadID string) (*domain.WizardSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[threadID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return session.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, threadID)
	return nil
}

// List returns active thread IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threads := make([]string, 0, len(s.data))
	for id := range s.data {
		threads = append(threads, id)
	}
	return threads, nil
}
