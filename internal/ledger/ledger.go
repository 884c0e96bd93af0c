// Package ledger implements the business operations over the storage layer:
// account lifecycle, deposits and withdrawals, loans, reporting, and the
// audit trail. Every successful mutation appends exactly one audit entry
// naming the acting administrator.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
	"github.com/charlesk/bankdesk/pkg/accountno"
)

// openAccountAttempts bounds how many fresh account numbers OpenAccount
// tries before giving up on collisions.
const openAccountAttempts = 5

// Service coordinates ledger operations against a Store.
type Service struct {
	store  storage.Store
	logger *slog.Logger
}

// NewService creates a ledger service over the given storage backend.
func NewService(store storage.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// audit appends one entry for a completed mutation. Append failures are
// logged but do not fail the operation that already committed.
func (s *Service) audit(ctx context.Context, actor, format string, args ...any) {
	entry := &models.AuditEntry{Actor: actor, Action: fmt.Sprintf(format, args...)}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit entry", "actor", actor, "action", entry.Action, "error", err)
	}
}

// OpenAccount creates an account under a freshly generated account number,
// retrying with a new number if the generated one collides.
func (s *Service) OpenAccount(ctx context.Context, actor, name, email, phone string, initialBalance float64) (*models.Account, error) {
	var lastErr error
	for i := 0; i < openAccountAttempts; i++ {
		account, err := s.CreateAccount(ctx, actor, accountno.New(), name, email, phone, initialBalance)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("gave up after %d account number collisions: %w", openAccountAttempts, lastErr)
}

// CreateAccount creates an account under an explicit account number. Fails
// with a constraint error if the number is already in use.
func (s *Service) CreateAccount(ctx context.Context, actor, number, name, email, phone string, initialBalance float64) (*models.Account, error) {
	account := &models.Account{
		Number:  number,
		Name:    name,
		Email:   email,
		Phone:   phone,
		Balance: initialBalance,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "account_no", account.Number, "holder", account.Name)
	s.audit(ctx, actor, "create account %s", account.Number)
	return account, nil
}

// Accounts returns all accounts ordered by creation.
func (s *Service) Accounts(ctx context.Context) ([]*models.Account, error) {
	return s.store.ListAccounts(ctx)
}

// UpdateAccount applies a partial update to an account's contact details.
func (s *Service) UpdateAccount(ctx context.Context, actor string, id int64, upd models.AccountUpdate) error {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.UpdateAccount(ctx, id, upd); err != nil {
		return err
	}

	s.audit(ctx, actor, "update account %s", account.Number)
	return nil
}

// DeleteAccount removes an account. Its transactions and loans remain on
// record under the now-orphaned account number.
func (s *Service) DeleteAccount(ctx context.Context, actor string, id int64) error {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", "account_no", account.Number)
	s.audit(ctx, actor, "delete account %s", account.Number)
	return nil
}

// Deposit posts a deposit to the account and returns the transaction.
func (s *Service) Deposit(ctx context.Context, actor, accountNumber string, amount float64, note string) (*models.Transaction, error) {
	return s.post(ctx, actor, accountNumber, models.KindDeposit, amount, note)
}

// Withdraw posts a withdrawal to the account and returns the transaction.
// Fails with insufficient funds if the amount exceeds the current balance.
func (s *Service) Withdraw(ctx context.Context, actor, accountNumber string, amount float64, note string) (*models.Transaction, error) {
	return s.post(ctx, actor, accountNumber, models.KindWithdraw, amount, note)
}

func (s *Service) post(ctx context.Context, actor, accountNumber string, kind models.TransactionKind, amount float64, note string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f: %w", amount, storage.ErrInvalidInput)
	}

	txn := &models.Transaction{
		AccountNumber: accountNumber,
		Kind:          kind,
		Amount:        amount,
		Note:          note,
	}
	if err := s.store.PostTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("transaction posted",
		"reference", txn.Reference,
		"account_no", accountNumber,
		"kind", kind,
		"amount", amount,
	)
	s.audit(ctx, actor, "%s %.2f on %s", kind, amount, accountNumber)
	return txn, nil
}

// Transactions returns up to limit transactions, most recent first.
func (s *Service) Transactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	return s.store.ListTransactions(ctx, limit)
}

// RequestLoan records a new pending loan for the account.
func (s *Service) RequestLoan(ctx context.Context, actor, accountNumber string, amount float64) (*models.Loan, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f: %w", amount, storage.ErrInvalidInput)
	}
	// The account must exist at request time, even though loans survive a
	// later account deletion.
	if _, err := s.store.GetAccountByNumber(ctx, accountNumber); err != nil {
		return nil, err
	}

	loan := &models.Loan{AccountNumber: accountNumber, Amount: amount}
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "loan request %.2f for %s", amount, accountNumber)
	return loan, nil
}

// SetLoanStatus moves a loan along pending -> approved -> paid.
func (s *Service) SetLoanStatus(ctx context.Context, actor string, id int64, status models.LoanStatus) error {
	if err := s.store.UpdateLoanStatus(ctx, id, status); err != nil {
		return err
	}

	s.audit(ctx, actor, "loan %d status -> %s", id, status)
	return nil
}

// Loans returns all loans, most recent first.
func (s *Service) Loans(ctx context.Context) ([]*models.Loan, error) {
	return s.store.ListLoans(ctx)
}

// TotalDeposits returns the sum of all deposit amounts ever posted.
func (s *Service) TotalDeposits(ctx context.Context) (float64, error) {
	return s.store.SumTransactions(ctx, models.KindDeposit)
}

// TotalWithdrawals returns the sum of all withdrawal amounts ever posted.
func (s *Service) TotalWithdrawals(ctx context.Context) (float64, error) {
	return s.store.SumTransactions(ctx, models.KindWithdraw)
}

// RecordLogin appends a login event to the audit trail.
func (s *Service) RecordLogin(ctx context.Context, actor string) {
	s.audit(ctx, actor, "login")
}

// RecordLogout appends a logout event to the audit trail.
func (s *Service) RecordLogout(ctx context.Context, actor string) {
	s.audit(ctx, actor, "logout")
}

// Audit returns up to limit audit entries, most recent first.
func (s *Service) Audit(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	return s.store.ListAudit(ctx, limit)
}
