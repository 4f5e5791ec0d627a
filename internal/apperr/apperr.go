// Package apperr defines the error families shared by the services and the
// HTTP layer. Domain errors carry their own identifiers and report their
// family through an Is method, so callers match with errors.Is.
package apperr

import "github.com/pkg/errors"

var (
	// ErrNotFound is the family of "no such record" failures.
	ErrNotFound = errors.New("not found")
	// ErrNotAllowed is the family of policy violations.
	ErrNotAllowed = errors.New("not allowed")
	// ErrConflict reports a uniqueness violation raised by a store.
	ErrConflict = errors.New("conflict")
	// ErrInvalid reports malformed input.
	ErrInvalid = errors.New("invalid input")
	// ErrUnauthorized reports missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// Invalid returns an ErrInvalid carrying a user-facing message.
func Invalid(msg string) error {
	return &messageError{family: ErrInvalid, msg: msg}
}

// Unauthorized returns an ErrUnauthorized carrying a user-facing message.
func Unauthorized(msg string) error {
	return &messageError{family: ErrUnauthorized, msg: msg}
}

type messageError struct {
	family error
	msg    string
}

func (e *messageError) Error() string { return e.msg }

func (e *messageError) Is(target error) bool { return target == e.family }

// IsNotFound reports whether err belongs to the NotFound family.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNotAllowed reports whether err belongs to the NotAllowed family.
func IsNotAllowed(err error) bool { return errors.Is(err, ErrNotAllowed) }

// IsConflict reports whether err is a store uniqueness violation.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
