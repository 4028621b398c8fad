package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"eventease/internal/models"
)

// AuditLogRepository records and queries security-relevant actions
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Record appends an entry to the audit log
func (r *AuditLogRepository) Record(actorID int, action, entity string, entityID int, details string) error {
	_, err := r.db.Exec(
		"INSERT INTO audit_log (actor_id, action, entity, entity_id, details, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		actorID, action, entity, entityID, details, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns audit entries newest first
func (r *AuditLogRepository) List(limit, offset int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(
		"SELECT id, actor_id, action, entity, entity_id, details, created_at FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// ListSince returns audit entries recorded at or after the given time,
// oldest first; feeds the CSV export.
func (r *AuditLogRepository) ListSince(since time.Time) ([]*models.AuditLogEntry, error) {
	rows, err := r.db.Query(
		"SELECT id, actor_id, action, entity, entity_id, details, created_at FROM audit_log WHERE created_at >= $1 ORDER BY created_at ASC",
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

func collectAuditEntries(rows *sql.Rows) ([]*models.AuditLogEntry, error) {
	var entries []*models.AuditLogEntry
	for rows.Next() {
		entry := &models.AuditLogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
