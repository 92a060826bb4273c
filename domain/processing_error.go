package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed receipt submission by the step that failed.
type ErrorKind string

const (
	// ErrorKindValidation rejects unsupported input before any remote call.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindExtraction covers recognition service failures.
	ErrorKindExtraction ErrorKind = "extraction"
	// ErrorKindArchival covers archive service failures.
	ErrorKindArchival ErrorKind = "archival"
	// ErrorKindPersistence covers storage-layer write failures.
	ErrorKindPersistence ErrorKind = "persistence"
)

// ProcessingError is the structured failure outcome of a receipt submission:
// the failing step's kind plus a human-readable detail, wrapping the
// underlying cause. A caller-initiated retry of the full submission is always
// safe because the archive key is deterministic and overwrites in place.
type ProcessingError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func NewProcessingError(kind ErrorKind, detail string, err error) *ProcessingError {
	return &ProcessingError{Kind: kind, Detail: detail, Err: err}
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err if it is a ProcessingError.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
