// Package apperr defines the error taxonomy every handler surfaces:
// unauthenticated, not-found, access-denied and validation. Policy is
// fail-fast: no handler retries, validation before any write.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindNotFound
	KindAccessDenied
	KindValidation
)

// Error carries a taxonomy kind plus a caller-facing message. An optional
// wrapped cause is preserved for logging.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Unauthenticated(msg string) error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func AccessDenied(msg string) error {
	return &Error{Kind: KindAccessDenied, Message: msg}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Wrap attaches a cause to a taxonomy error without changing what the
// caller sees.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf returns the taxonomy kind of err, or KindUnknown for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
