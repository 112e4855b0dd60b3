package store

import (
	"context"
	"sync"

	"civicledger/internal/issuer"
	"civicledger/pkg/platform/sentinel"
)

// MemoryStore keeps the issuer catalog in process.
type MemoryStore struct {
	mu      sync.RWMutex
	issuers []issuer.Info
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context) ([]issuer.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]issuer.Info, len(s.issuers))
	copy(out, s.issuers)
	return out, nil
}

func (s *MemoryStore) FindByKey(_ context.Context, pubKeyHash string) (issuer.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, info := range s.issuers {
		if info.PubKeyHash == pubKeyHash {
			return info, nil
		}
	}
	return issuer.Info{}, sentinel.ErrNotFound
}

func (s *MemoryStore) Add(_ context.Context, info issuer.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.issuers {
		if existing.PubKeyHash == info.PubKeyHash {
			return nil
		}
	}
	s.issuers = append(s.issuers, info)
	return nil
}
