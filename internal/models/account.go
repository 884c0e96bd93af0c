package models

// Account represents a customer bank account.
//
// Balance is the single source of truth for funds: it is updated in the same
// database transaction as every posted deposit or withdrawal and is never
// recomputed from transaction history at read time.
type Account struct {
	// ID is the row identifier assigned by the database.
	ID int64

	// Number is the system-generated account number (e.g., "AC482913").
	// Unique and immutable once assigned.
	Number string

	// Name is the account holder's full name.
	Name string

	// Email is the holder's contact email (optional).
	Email string

	// Phone is the holder's contact phone number (optional).
	Phone string

	// Balance is the current funds on the account.
	Balance float64

	// CreatedAt is the Unix timestamp when the account was opened.
	CreatedAt int64
}

// AccountUpdate describes a partial update to an account's contact details.
// Nil fields keep their current stored value.
type AccountUpdate struct {
	Name  *string
	Email *string
	Phone *string
}
