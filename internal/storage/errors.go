package storage

import "errors"

// Sentinel errors classifying every failure a Store can return. Operations
// wrap these with context via fmt.Errorf and %w, so callers assert the
// category with errors.Is (or KindOf) rather than matching message strings.
var (
	// ErrNotFound means a referenced account, loan, or admin does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means a unique constraint was violated, such as reusing
	// an account number or admin username.
	ErrDuplicate = errors.New("already exists")

	// ErrInsufficientFunds means a withdrawal would drive the balance
	// negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransition means a loan status change does not follow
	// pending -> approved -> paid.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput means a value failed business validation, such as a
	// non-positive amount or an unknown transaction kind.
	ErrInvalidInput = errors.New("invalid input")
)

// Kind is the coarse failure category of a store error.
type Kind int

const (
	// KindStorage covers driver and I/O failures not otherwise classified.
	KindStorage Kind = iota
	KindNotFound
	KindConstraint
	KindBusinessRule
)

// KindOf classifies err into a Kind. Unrecognized (and nil) errors are
// reported as KindStorage.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate):
		return KindConstraint
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidInput):
		return KindBusinessRule
	}
	return KindStorage
}
