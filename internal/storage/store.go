// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/charlesk/bankdesk/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, MySQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateAdmin persists a new administrator.
	// Returns ErrDuplicate if the username is taken.
	CreateAdmin(ctx context.Context, admin *models.Admin) error

	// GetAdminByUsername retrieves an administrator by login name.
	// Returns ErrNotFound if no such admin exists.
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)

	// CountAdmins returns the number of administrator rows.
	CountAdmins(ctx context.Context) (int, error)

	// CreateAccount persists a new account and populates its ID.
	// Returns ErrDuplicate if the account number is already in use.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by row ID.
	GetAccount(ctx context.Context, id int64) (*models.Account, error)

	// GetAccountByNumber retrieves an account by account number.
	GetAccountByNumber(ctx context.Context, number string) (*models.Account, error)

	// ListAccounts returns all accounts ordered by row ID.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// UpdateAccount applies a partial update to the account's contact
	// details. Nil fields in upd keep their stored value.
	UpdateAccount(ctx context.Context, id int64, upd models.AccountUpdate) error

	// DeleteAccount removes the account row. Transactions and loans
	// referencing its number are left in place.
	DeleteAccount(ctx context.Context, id int64) error

	// PostTransaction atomically checks the account balance, applies the
	// movement, and inserts the transaction row. A withdrawal that would
	// drive the balance negative fails with ErrInsufficientFunds and
	// changes nothing; an unknown kind or non-positive amount fails with
	// ErrInvalidInput. The transaction's ID, Reference, and CreatedAt are
	// populated by the store.
	PostTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions returns up to limit transactions, most recent first.
	ListTransactions(ctx context.Context, limit int) ([]*models.Transaction, error)

	// SumTransactions returns the total amount across all transactions of
	// the given kind, zero if none exist.
	SumTransactions(ctx context.Context, kind models.TransactionKind) (float64, error)

	// CreateLoan persists a new loan with status pending.
	CreateLoan(ctx context.Context, loan *models.Loan) error

	// GetLoan retrieves a loan by row ID.
	GetLoan(ctx context.Context, id int64) (*models.Loan, error)

	// UpdateLoanStatus moves the loan to the given status and refreshes
	// its updated_at. Returns ErrInvalidTransition unless the move follows
	// pending -> approved -> paid.
	UpdateLoanStatus(ctx context.Context, id int64, status models.LoanStatus) error

	// ListLoans returns all loans, most recent first.
	ListLoans(ctx context.Context) ([]*models.Loan, error)

	// AppendAudit inserts an audit entry.
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error

	// ListAudit returns up to limit audit entries, most recent first.
	ListAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
