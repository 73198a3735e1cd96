package validate

import (
	"errors"
	"fmt"
)

// ErrInvalid is the root of every validation failure.
var ErrInvalid = errors.New("invalid answer")

// Error is a single slot validation failure. Hint is safe to show to the user.
type Error struct {
	Field string // Slot kind, e.g. "date"
	Hint  string // Corrective guidance
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Hint)
}

func (e *Error) Unwrap() error { return ErrInvalid }

func invalid(field, hint string) error {
	return &Error{Field: field, Hint: hint}
}

// Hint extracts the user-facing guidance from err, or a generic one.
func Hint(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Hint
	}
	return "Sorry, I didn't understand that."
}
