// Package shared centralizes JSON response writing so every handler emits
// the same envelope.
package shared

import (
	"encoding/json"
	"net/http"

	"civicledger/pkg/domainerrors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	WriteJSON(w, domainerrors.ToHTTPStatus(code), map[string]string{
		"error":             string(code),
		"error_description": domainerrors.MessageOf(err),
	})
}
