// Package audit captures structured, append-only events for every
// state-changing action in the system.
package audit

import (
	"context"
	"time"
)

// EventType names the auditable actions.
type EventType string

const (
	EventRequestCreated        EventType = "request_created"
	EventRequestApproved       EventType = "request_approved"
	EventRequestRejected       EventType = "request_rejected"
	EventShareCreated          EventType = "share_created"
	EventVerificationPerformed EventType = "verification_performed"
	EventOTPIssued             EventType = "otp_issued"
)

// Event is one audit record. Actor is an address or email; Subject is the
// entity the action touched (request id, short id, ...).
type Event struct {
	Type      EventType         `json:"type"`
	Actor     string            `json:"actor"`
	Subject   string            `json:"subject"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Store is the audit sink port.
type Store interface {
	Append(ctx context.Context, event Event) error
}
