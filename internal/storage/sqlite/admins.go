package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
)

// CreateAdmin inserts a new administrator into the database.
func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash, full_name) VALUES (?, ?, ?)",
		admin.Username, admin.PasswordHash, admin.FullName,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin %q: %w", admin.Username, classify(err))
	}

	admin.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read admin id: %w", err)
	}
	return nil
}

// GetAdminByUsername retrieves an administrator by login name.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, full_name FROM admins WHERE username = ?",
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.FullName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("admin %q: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// CountAdmins returns the number of administrator rows.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
