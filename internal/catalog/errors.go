package catalog

import (
	"errors"
	"fmt"

	"github.com/mustafa861/library/internal/store"
)

// Error is returned by every Catalog operation that fails.
//
// Kind tells the caller how the failure should be presented; Err carries the
// underlying cause and works with errors.Is against the sentinels below.
type Error struct {
	// Kind categorizes the failure.
	Kind Kind

	// Op names the catalog operation, e.g. "issue book".
	Op string

	// Err is the underlying cause.
	Err error
}

// Kind categorizes catalog failures.
type Kind string

const (
	// KindConstraintViolation indicates a duplicate isbn or email.
	KindConstraintViolation Kind = "CONSTRAINT_VIOLATION"

	// KindNotFoundOrUnavailable indicates a missing book or member, no copy
	// on the shelf, or no open loan to return.
	KindNotFoundOrUnavailable Kind = "NOT_FOUND_OR_UNAVAILABLE"

	// KindStorageFailure indicates an unexpected store error.
	KindStorageFailure Kind = "STORAGE_FAILURE"

	// KindInvalidInput indicates input rejected before reaching the store.
	KindInvalidInput Kind = "INVALID_INPUT"
)

// Re-exported store sentinels so callers need not import the store.
var (
	ErrDuplicateISBN     = store.ErrDuplicateISBN
	ErrDuplicateEmail    = store.ErrDuplicateEmail
	ErrBookNotFound      = store.ErrBookNotFound
	ErrMemberNotFound    = store.ErrMemberNotFound
	ErrNoCopiesAvailable = store.ErrNoCopiesAvailable
	ErrNoOpenLoan        = store.ErrNoOpenLoan
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// classify wraps err from the store into an *Error of the matching kind.
func classify(op string, err error) *Error {
	kind := KindStorageFailure
	switch {
	case errors.Is(err, store.ErrDuplicateISBN), errors.Is(err, store.ErrDuplicateEmail):
		kind = KindConstraintViolation
	case errors.Is(err, store.ErrBookNotFound),
		errors.Is(err, store.ErrMemberNotFound),
		errors.Is(err, store.ErrNoCopiesAvailable),
		errors.Is(err, store.ErrNoOpenLoan):
		kind = KindNotFoundOrUnavailable
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of err, or "" if err is not a catalog error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsConstraintViolation returns true if err is a duplicate isbn or email.
func IsConstraintViolation(err error) bool {
	return KindOf(err) == KindConstraintViolation
}

// IsNotFoundOrUnavailable returns true if err reports a missing record, an
// empty shelf or no open loan.
func IsNotFoundOrUnavailable(err error) bool {
	return KindOf(err) == KindNotFoundOrUnavailable
}

// IsStorageFailure returns true if err is an unexpected store error.
func IsStorageFailure(err error) bool {
	return KindOf(err) == KindStorageFailure
}

// IsInvalidInput returns true if err was raised by input validation.
func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}
