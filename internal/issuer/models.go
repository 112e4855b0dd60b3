// Package issuer holds the catalog of authorizing parties and the document
// types each of them can attest. Requests are validated against this
// catalog at creation time.
package issuer

import "context"

// Info describes one registered issuer.
type Info struct {
	Address       string   `json:"address"`
	PubKeyHash    string   `json:"pubKeyHash"`
	Name          string   `json:"name"`
	DocumentTypes []string `json:"documentTypes"`
}

// CanIssue reports whether the issuer declares the given document type.
func (i Info) CanIssue(documentType string) bool {
	for _, t := range i.DocumentTypes {
		if t == documentType {
			return true
		}
	}
	return false
}

// Store is the issuer catalog persistence port.
type Store interface {
	List(ctx context.Context) ([]Info, error)
	FindByKey(ctx context.Context, pubKeyHash string) (Info, error)
	// Add registers an issuer; re-registering an existing pubKeyHash is a
	// no-op, matching the append-only registry semantics.
	Add(ctx context.Context, info Info) error
}
