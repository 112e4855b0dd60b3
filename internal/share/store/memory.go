package store

import (
	"context"
	"sync"

	"civicledger/internal/share"
	"civicledger/pkg/platform/sentinel"
)

// MemoryStore keeps share sessions in process. Expiry is the service's
// concern; the store returns whatever it holds.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]share.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]share.Session)}
}

func (s *MemoryStore) Save(_ context.Context, session share.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ShortID]; ok {
		return sentinel.ErrConflict
	}
	s.sessions[session.ShortID] = session
	return nil
}

func (s *MemoryStore) Find(_ context.Context, shortID string) (share.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[shortID]
	if !ok {
		return share.Session{}, sentinel.ErrNotFound
	}
	return session, nil
}

func (s *MemoryStore) Delete(_ context.Context, shortID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, shortID)
	return nil
}
