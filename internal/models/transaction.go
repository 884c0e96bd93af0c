package models

// TransactionKind identifies the direction of a posted transaction.
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
)

// Valid reports whether k is a known transaction kind.
func (k TransactionKind) Valid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// Transaction is an append-only record of a single balance movement.
// Rows are never updated or deleted once posted.
type Transaction struct {
	// ID is the row identifier assigned by the database.
	ID int64

	// Reference is the unique identifier for the posting (UUID format),
	// assigned by the store at insert time.
	Reference string

	// AccountNumber is the account the movement applies to. This is a soft
	// reference: deleting the account leaves its transactions in place.
	AccountNumber string

	// Kind is deposit or withdraw.
	Kind TransactionKind

	// Amount is the movement size. Always positive; Kind carries direction.
	Amount float64

	// Note is an optional free-text description.
	Note string

	// CreatedAt is the Unix timestamp when the transaction was posted.
	CreatedAt int64
}
