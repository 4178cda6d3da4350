package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse means the model answered with text that is not JSON.
	ErrMalformedResponse = errors.New("Invalid JSON format in response")
	// ErrEmptyResponse means the model answered without any text part.
	ErrEmptyResponse = errors.New("empty response")
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError wraps any failure reported by the upstream service or the
// transport in front of it. Status is the HTTP status the service answered
// with, 0 when the call never got a response.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// InvalidInput wraps ErrInvalidInput with the message shown to the caller.
func InvalidInput(detail string) error {
	return &inputError{detail: detail}
}

type inputError struct{ detail string }

func (e *inputError) Error() string        { return e.detail }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }
