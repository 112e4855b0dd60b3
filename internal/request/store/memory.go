package store

import (
	"context"
	"strings"
	"sync"

	"civicledger/internal/document"
	"civicledger/internal/request"
	"civicledger/pkg/platform/sentinel"
)

// MemoryStore keeps requests in process. The mutex makes the
// check-then-finalize sequence atomic, which is what guarantees terminal
// states are absorbing.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[string]request.DocumentRequest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: make(map[string]request.DocumentRequest)}
}

func (s *MemoryStore) Save(_ context.Context, req request.DocumentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; ok {
		return sentinel.ErrConflict
	}
	s.requests[req.ID] = req
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (request.DocumentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return request.DocumentRequest{}, sentinel.ErrNotFound
	}
	return req, nil
}

func (s *MemoryStore) ListPendingForIssuer(_ context.Context, issuerKey string) ([]request.DocumentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []request.DocumentRequest
	for _, req := range s.requests {
		if req.IssuerKey == issuerKey && req.Status == request.StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListApprovedForOwner(_ context.Context, ownerAddress string) ([]request.DocumentRequest, error) {
	normalized := strings.ToLower(strings.TrimSpace(ownerAddress))
	if normalized == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []request.DocumentRequest
	for _, req := range s.requests {
		if req.Status != request.StatusApproved || req.Content == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(req.RequesterAddress)) == normalized {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *MemoryStore) Finalize(_ context.Context, id string, status request.Status, content *document.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if req.Status != request.StatusPending {
		return sentinel.ErrInvalidState
	}
	req.Status = status
	req.Content = content
	s.requests[id] = req
	return nil
}
