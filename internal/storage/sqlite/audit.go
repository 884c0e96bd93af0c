package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/charlesk/bankdesk/internal/models"
)

// AppendAudit inserts an audit entry.
func (s *Store) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_log (actor, action, created_at) VALUES (?, ?, ?)",
		entry.Actor, entry.Action, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read audit entry id: %w", err)
	}
	return nil
}

// ListAudit returns up to limit audit entries, most recent first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, actor, action, created_at FROM audit_log ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		entry := &models.AuditEntry{}
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}
