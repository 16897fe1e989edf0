package exam

import (
	"errors"
	"strings"
)

var (
	ErrExamNotFound   = errors.New("exam not found")
	ErrSlotOutOfRange = errors.New("image slot index out of range")
)

// ValidationError collects every field-level problem found while sanitizing
// a form, so the caller sees the full list in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "exam validation failed: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) add(msg string) {
	e.Fields = append(e.Fields, msg)
}
