package util

import (
	"bytes"
	"encoding/json"

	"recycle-lens/api/internal/llm"
)

// ParseJSON checks that raw is one strict JSON document and returns it
// unchanged so the caller can pass it through byte for byte. Anything else,
// including code-fenced JSON, yields llm.ErrMalformedResponse.
func ParseJSON(raw string) (json.RawMessage, error) {
	b := bytes.TrimSpace([]byte(raw))
	if len(b) == 0 || !json.Valid(b) {
		return nil, llm.ErrMalformedResponse
	}
	return json.RawMessage(b), nil
}
