package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every operational failure wraps exactly one of these so the
// HTTP layer can map it to a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("authentication error")
	ErrForbidden       = errors.New("authorization error")
	ErrNotFound        = errors.New("not found")
	ErrRateLimited     = errors.New("rate limited")
	// ErrInternal marks a server-side failure whose message is still meant
	// for the client.
	ErrInternal = errors.New("internal error")
)

// Error is an operational error whose message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an operational error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Operational reports whether err is an expected, client-facing failure.
func Operational(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
