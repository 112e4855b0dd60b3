package store

import (
	"context"
	"strings"
	"sync"

	"civicledger/internal/document"
)

// MemoryRecordStore keeps local document records in process. Owner keys are
// normalized so address casing cannot split one owner's records.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string][]document.Record
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string][]document.Record)}
}

func ownerKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (s *MemoryRecordStore) Add(_ context.Context, ownerAddress string, rec document.Record) (bool, error) {
	key := ownerKey(ownerAddress)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records[key] {
		if existing.Hash == rec.Hash {
			return false, nil
		}
	}
	s.records[key] = append(s.records[key], rec)
	return true, nil
}

func (s *MemoryRecordStore) ListByOwner(_ context.Context, ownerAddress string) ([]document.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[ownerKey(ownerAddress)]
	out := make([]document.Record, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemoryRecordStore) MetadataByType(_ context.Context, ownerAddress string) (map[string]map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latest := make(map[string]document.Record)
	for _, rec := range s.records[ownerKey(ownerAddress)] {
		if len(rec.Metadata) == 0 {
			continue
		}
		if existing, ok := latest[rec.DocumentType]; !ok || rec.Timestamp.After(existing.Timestamp) {
			latest[rec.DocumentType] = rec
		}
	}
	out := make(map[string]map[string]string, len(latest))
	for docType, rec := range latest {
		out[docType] = rec.Metadata
	}
	return out, nil
}
