package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
)

// CreateLoan inserts a new loan with status pending and created_at equal to
// updated_at.
func (s *Store) CreateLoan(ctx context.Context, loan *models.Loan) error {
	now := time.Now().Unix()
	loan.Status = models.LoanPending
	loan.CreatedAt = now
	loan.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO loans (account_no, amount, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		loan.AccountNumber, loan.Amount, string(loan.Status), loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	loan.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read loan id: %w", err)
	}
	return nil
}

// GetLoan retrieves a loan by row ID.
func (s *Store) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	loan := &models.Loan{}
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, account_no, amount, status, created_at, updated_at FROM loans WHERE id = ?",
		id,
	).Scan(&loan.ID, &loan.AccountNumber, &loan.Amount, &status, &loan.CreatedAt, &loan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("loan %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	loan.Status = models.LoanStatus(status)
	return loan, nil
}

// UpdateLoanStatus moves a loan to the given status. The current status is
// read inside the same SQL transaction as the write, and the move must
// follow pending -> approved -> paid.
func (s *Store) UpdateLoanStatus(ctx context.Context, id int64, status models.LoanStatus) error {
	if !status.Valid() {
		return fmt.Errorf("loan status %q: %w", status, storage.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM loans WHERE id = ?", id).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("loan %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get loan status: %w", err)
	}

	if !models.LoanStatus(current).CanTransitionTo(status) {
		return fmt.Errorf("loan %d: %s -> %s: %w", id, current, status, storage.ErrInvalidTransition)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE loans SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListLoans returns all loans, most recent first.
func (s *Store) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, account_no, amount, status, created_at, updated_at FROM loans ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan := &models.Loan{}
		var status string
		if err := rows.Scan(&loan.ID, &loan.AccountNumber, &loan.Amount, &status,
			&loan.CreatedAt, &loan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loan.Status = models.LoanStatus(status)
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}
	return loans, nil
}
