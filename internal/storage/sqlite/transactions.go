package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
)

// PostTransaction applies one balance movement as a single unit of work: the
// balance check, the balance update, and the transaction insert all happen
// inside one SQL transaction, so a failure partway leaves nothing behind.
func (s *Store) PostTransaction(ctx context.Context, txn *models.Transaction) error {
	if !txn.Kind.Valid() {
		return fmt.Errorf("transaction kind %q: %w", txn.Kind, storage.ErrInvalidInput)
	}
	// Kind carries the direction; a non-positive amount would invert it and
	// let a "deposit" drain the balance.
	if txn.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f: %w", txn.Amount, storage.ErrInvalidInput)
	}
	if txn.Reference == "" {
		txn.Reference = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE account_no = ?", txn.AccountNumber,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return fmt.Errorf("account %s: %w", txn.AccountNumber, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	newBalance := balance + txn.Amount
	if txn.Kind == models.KindWithdraw {
		if txn.Amount > balance {
			return fmt.Errorf("withdraw %.2f from %s with balance %.2f: %w",
				txn.Amount, txn.AccountNumber, balance, storage.ErrInsufficientFunds)
		}
		newBalance = balance - txn.Amount
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE accounts SET balance = ? WHERE account_no = ?",
		newBalance, txn.AccountNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (reference, account_no, kind, amount, note, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		txn.Reference, txn.AccountNumber, string(txn.Kind), txn.Amount, txn.Note, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", classify(err))
	}
	txn.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTransactions returns up to limit transactions, most recent first.
func (s *Store) ListTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, reference, account_no, kind, amount, note, created_at FROM transactions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		var kind string
		if err := rows.Scan(&txn.ID, &txn.Reference, &txn.AccountNumber, &kind,
			&txn.Amount, &txn.Note, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Kind = models.TransactionKind(kind)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// SumTransactions returns the total amount across all transactions of the
// given kind. Recomputed from the full table on every call.
func (s *Store) SumTransactions(ctx context.Context, kind models.TransactionKind) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = ?",
		string(kind),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}
