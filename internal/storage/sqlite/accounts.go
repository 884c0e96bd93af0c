package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
)

// CreateAccount inserts a new account and populates its row ID.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (account_no, name, email, phone, balance, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		account.Number, account.Name, account.Email, account.Phone, account.Balance, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", account.Number, classify(err))
	}

	account.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read account id: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by row ID.
func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.getAccount(ctx, "id", id)
}

// GetAccountByNumber retrieves an account by account number.
func (s *Store) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	return s.getAccount(ctx, "account_no", number)
}

func (s *Store) getAccount(ctx context.Context, column string, key any) (*models.Account, error) {
	account := &models.Account{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, account_no, name, email, phone, balance, created_at FROM accounts WHERE "+column+" = ?",
		key,
	).Scan(&account.ID, &account.Number, &account.Name, &account.Email,
		&account.Phone, &account.Balance, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %v: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts ordered by row ID.
func (s *Store) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, account_no, name, email, phone, balance, created_at FROM accounts ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(&account.ID, &account.Number, &account.Name, &account.Email,
			&account.Phone, &account.Balance, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount applies a partial update to an account's contact details.
// The current row is read first inside a transaction so that omitted fields
// keep their stored values.
func (s *Store) UpdateAccount(ctx context.Context, id int64, upd models.AccountUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var name, email, phone string
	err = tx.QueryRowContext(ctx,
		"SELECT name, email, phone FROM accounts WHERE id = ?", id,
	).Scan(&name, &email, &phone)
	if err == sql.ErrNoRows {
		return fmt.Errorf("account %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	if upd.Name != nil {
		name = *upd.Name
	}
	if upd.Email != nil {
		email = *upd.Email
	}
	if upd.Phone != nil {
		phone = *upd.Phone
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE accounts SET name = ?, email = ?, phone = ? WHERE id = ?",
		name, email, phone, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteAccount removes an account row. Transactions and loans referencing
// its number are left in place.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
