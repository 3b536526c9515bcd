package engine

import (
	"errors"
	"fmt"

	"github.com/prk7048/LOA-AGENT/internal/storage"
)

var (
	// ErrStorageUnavailable is fatal for the current operation and never retried here.
	ErrStorageUnavailable = storage.ErrUnavailable
	// ErrSourceUnavailable marks a failed fetch from the stat source.
	ErrSourceUnavailable = errors.New("stat source unavailable")
	ErrNotFound          = storage.ErrNotFound
)

var (
	errUnknownValue = errors.New("unknown value")
	errEmpty        = errors.New("must not be empty")
	errNegative     = errors.New("must not be negative")
	errNoSource     = errors.New("no stat source configured")
)

// ValidationError reports a malformed input or upstream field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
