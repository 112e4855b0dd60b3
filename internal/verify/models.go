package verify

// Check is the outcome of a single predicate evaluated during
// verification. Passed is nil when the underlying metadata was absent
// or unparsable; a nil outcome never blocks overall validity.
type Check struct {
	Required bool  `json:"required"`
	Passed   *bool `json:"passed"`
	Age      *int  `json:"age,omitempty"`
}

// DocResult is the per-document-type portion of a verification result.
type DocResult struct {
	DocumentType string            `json:"documentType"`
	OnChain      bool              `json:"onChain"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	AgeCheck     *Check            `json:"ageCheck,omitempty"`
	ExpiryCheck  *Check            `json:"expiryCheck,omitempty"`
}

// Result is the full outcome of verifying a share session.
type Result struct {
	Valid    bool        `json:"valid"`
	Address  string      `json:"address"`
	DocTypes []string    `json:"docTypes"`
	Results  []DocResult `json:"results"`
}

// Params carries the verifier's requested scope and predicates.
type Params struct {
	DocTypes          []string
	RequireAge18      bool
	RequireNotExpired bool
}
