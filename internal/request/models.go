// Package request implements the document-request lifecycle: a requester
// submits a pending request, and exactly one signed issuer action moves it
// to a terminal state.
package request

import (
	"time"

	"civicledger/internal/document"
)

// Status is the request lifecycle state. Terminal states are absorbing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DocumentRequest is one request record. IssuerKey is the pubkey hash of
// the intended issuer, never a raw address; Content is present only once
// approved.
type DocumentRequest struct {
	ID               string            `json:"id"`
	RequesterID      string            `json:"requesterId"`
	RequesterAddress string            `json:"requesterAddress"`
	IssuerKey        string            `json:"issuerKey"`
	DocumentType     string            `json:"documentType"`
	SubmittedFields  map[string]string `json:"submittedFields"`
	Status           Status            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	Content          *document.Payload `json:"content,omitempty"`
}
