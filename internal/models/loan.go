package models

// LoanStatus is the lifecycle state of a loan request.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanPaid     LoanStatus = "paid"
)

// Valid reports whether s is a known loan status.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether a loan may move from s to next.
// The only permitted moves are pending -> approved -> paid.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case LoanPending:
		return next == LoanApproved
	case LoanApproved:
		return next == LoanPaid
	}
	return false
}

// Loan represents a loan request against an account.
// Status and UpdatedAt are the only fields that change after creation.
type Loan struct {
	// ID is the row identifier assigned by the database.
	ID int64

	// AccountNumber is the requesting account. Soft reference, like
	// Transaction.AccountNumber.
	AccountNumber string

	// Amount is the requested loan amount.
	Amount float64

	// Status is the current lifecycle state.
	Status LoanStatus

	// CreatedAt is the Unix timestamp when the loan was requested.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last status change.
	// Equals CreatedAt until the first transition.
	UpdatedAt int64
}
