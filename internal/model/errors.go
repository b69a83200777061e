package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures so the API layer can pick status
// codes without parsing messages.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "INVALID_INPUT"
	KindInsufficientHistory ErrorKind = "INSUFFICIENT_HISTORY"
	KindNoSamples           ErrorKind = "NO_SAMPLES"
	KindUnsupportedDuration ErrorKind = "UNSUPPORTED_DURATION"
	KindOutOfSeason         ErrorKind = "OUT_OF_SEASON"
	KindRuleViolation       ErrorKind = "RULE_VIOLATION"
	KindNotFound            ErrorKind = "NOT_FOUND"
)

// Error is a typed engine failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain, or "" for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool { return KindOf(err) == kind }
