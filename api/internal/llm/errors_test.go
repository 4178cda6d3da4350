package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota exceeded")

	t.Run("with status", func(t *testing.T) {
		t.Parallel()
		err := &UpstreamError{Op: "gemini generate", Status: 429, Err: cause}
		if got, want := err.Error(), "gemini generate: upstream status 429: quota exceeded"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("without status", func(t *testing.T) {
		t.Parallel()
		err := &UpstreamError{Op: "gemini upload", Err: cause}
		if got, want := err.Error(), "gemini upload: quota exceeded"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("unwraps through fmt wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("detect: %w", &UpstreamError{Op: "x", Err: cause})
		var ue *UpstreamError
		if !errors.As(err, &ue) {
			t.Fatal("expected errors.As to find UpstreamError")
		}
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to reach the cause")
		}
	})
}

func TestInvalidInput(t *testing.T) {
	t.Parallel()

	err := InvalidInput("Invalid input: 'object' and 'materials' are required.")
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected errors.Is(err, ErrInvalidInput)")
	}
	if err.Error() != "Invalid input: 'object' and 'materials' are required." {
		t.Errorf("unexpected message %q", err.Error())
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("input error must not match ErrMalformedResponse")
	}
}
