package ledger

import (
	"context"
	"sync"

	"civicledger/pkg/platform/sentinel"
)

type claim struct {
	docHash       string
	issuerKeyHash string
	docType       string
}

// MemoryLedger is the single-process ledger used for the demo deployment
// and in tests. It enforces the same registration and duplicate rules the
// on-chain contract does.
type MemoryLedger struct {
	mu      sync.RWMutex
	users   map[string]bool // pubKeyHash -> isIssuer
	claims  map[string][]claim
	byIssue map[string][]string // issuer pubKeyHash -> doc types attested
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		users:   make(map[string]bool),
		claims:  make(map[string][]claim),
		byIssue: make(map[string][]string),
	}
}

func (l *MemoryLedger) UserExists(_ context.Context, pubKeyHash string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.users[pubKeyHash]
	return ok, nil
}

func (l *MemoryLedger) RegisterUser(_ context.Context, pubKeyHash string, isIssuer bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[pubKeyHash]; ok {
		return sentinel.ErrConflict
	}
	l.users[pubKeyHash] = isIssuer
	return nil
}

func (l *MemoryLedger) RecordDocument(_ context.Context, pubKeyHash, docHash, issuerKeyHash, docType string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[pubKeyHash]; !ok {
		return sentinel.ErrNotRegistered
	}
	for _, c := range l.claims[pubKeyHash] {
		if c.docHash == docHash && c.docType == docType {
			return sentinel.ErrAlreadyRecorded
		}
	}
	l.claims[pubKeyHash] = append(l.claims[pubKeyHash], claim{
		docHash:       docHash,
		issuerKeyHash: issuerKeyHash,
		docType:       docType,
	})
	if !contains(l.byIssue[issuerKeyHash], docType) {
		l.byIssue[issuerKeyHash] = append(l.byIssue[issuerKeyHash], docType)
	}
	return nil
}

func (l *MemoryLedger) GetUserDocumentTypes(_ context.Context, pubKeyHash string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var types []string
	for _, c := range l.claims[pubKeyHash] {
		if !contains(types, c.docType) {
			types = append(types, c.docType)
		}
	}
	return types, nil
}

func (l *MemoryLedger) GetIssuerDocumentTypes(_ context.Context, pubKeyHash string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	types := make([]string, len(l.byIssue[pubKeyHash]))
	copy(types, l.byIssue[pubKeyHash])
	return types, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
