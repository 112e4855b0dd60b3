package document

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PayloadKind discriminates the two encodings an issuer can upload. The
// kind is chosen at upload time instead of sniffed later, so the pipeline
// never has to guess.
type PayloadKind string

const (
	PayloadJSON   PayloadKind = "json"
	PayloadBinary PayloadKind = "binary"
)

// Payload is a tagged document body. JSON payloads carry the raw text;
// binary payloads carry base64.
type Payload struct {
	Kind PayloadKind `json:"kind"`
	Data string      `json:"data"`
}

// NewJSONPayload wraps raw JSON text.
func NewJSONPayload(text string) Payload {
	return Payload{Kind: PayloadJSON, Data: text}
}

// NewBinaryPayload wraps raw bytes as base64.
func NewBinaryPayload(raw []byte) Payload {
	return Payload{Kind: PayloadBinary, Data: base64.StdEncoding.EncodeToString(raw)}
}

// SniffPayload classifies untyped stored content by its leading character.
// Only for content persisted before tagging existed; new uploads declare
// their kind explicitly.
func SniffPayload(raw string) Payload {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return Payload{Kind: PayloadJSON, Data: raw}
	}
	return Payload{Kind: PayloadBinary, Data: raw}
}

// Empty reports whether the payload carries no content.
func (p Payload) Empty() bool {
	return strings.TrimSpace(p.Data) == ""
}

// Bytes decodes the payload into the raw bytes that get digested.
func (p Payload) Bytes() ([]byte, error) {
	switch p.Kind {
	case PayloadJSON:
		return []byte(p.Data), nil
	case PayloadBinary:
		raw, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("decode binary payload: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q", p.Kind)
	}
}
