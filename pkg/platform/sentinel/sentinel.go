package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, the ledger client and
// other infrastructure layers return these (optionally wrapped) so services
// can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: entity already exists under the same key
// - ErrExpired: share session or OTP past its TTL
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrAlreadyRecorded: ledger already holds this exact document claim
// - ErrNotRegistered: identity unknown to the ledger
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domainerrors
// directly.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrExpired         = errors.New("expired")
	ErrInvalidState    = errors.New("invalid state")
	ErrAlreadyRecorded = errors.New("already recorded")
	ErrNotRegistered   = errors.New("not registered")
	ErrUnavailable     = errors.New("unavailable")
)
