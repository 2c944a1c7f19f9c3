package game

import (
	"errors"
	"strings"
)

// Sentinel errors for hard failures.
var (
	ErrInvalidSlot = errors.New("invalid slot")
	ErrInvalidShow = errors.New("show is invalid")
	ErrSlotIndex   = errors.New("slot index out of range")
)

// ValidationError carries the codes that made a booking or show invalid.
// It unwraps to ErrInvalidSlot or ErrInvalidShow.
type ValidationError struct {
	Kind  error
	Codes []Code
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		parts[i] = string(c)
	}
	return e.Kind.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return e.Kind }
