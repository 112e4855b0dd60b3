package store

import (
	"context"
	"sync"

	"civicledger/internal/userregistry"
	"civicledger/pkg/platform/sentinel"
)

// MemoryStore is the in-memory user store used in demo mode and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]userregistry.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]userregistry.User)}
}

func (s *MemoryStore) Save(_ context.Context, user userregistry.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.Email] = user
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (userregistry.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return userregistry.User{}, sentinel.ErrNotFound
	}
	return user, nil
}
