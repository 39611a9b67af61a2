package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
)

type AuditLogRepositoryAdapter struct {
	db *sql.DB
}

func NewAuditLogRepositoryAdapter(db *sql.DB) outbound.AuditLogRepository {
	return &AuditLogRepositoryAdapter{db: db}
}

func (r *AuditLogRepositoryAdapter) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	query := `
		INSERT INTO user_manipulations_logs
			(action, entity_id, original_values, new_values, by_user, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := execer(ctx, r.db).QueryRowContext(ctx, query,
		entry.Action.String(),
		entry.EntityID,
		nullableJSON(entry.OriginalValues),
		nullableJSON(entry.NewValues),
		entry.ByUser,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert audit log entry: %w", err)
	}
	return nil
}

// Find returns the entries matching every set filter, oldest first.
func (r *AuditLogRepositoryAdapter) Find(ctx context.Context, filter outbound.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	query, args := buildFindQuery(filter)

	rows, err := execer(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditLogEntry
	for rows.Next() {
		var (
			e                   entity.AuditLogEntry
			action              string
			original, newValues []byte
		)
		if err := rows.Scan(&e.ID, &action, &e.EntityID, &original, &newValues, &e.ByUser, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		e.Action = entity.Action(action)
		e.OriginalValues = original
		e.NewValues = newValues
		e.CreatedAt = e.CreatedAt.UTC()
		e.UpdatedAt = e.UpdatedAt.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit log: %w", err)
	}
	return entries, nil
}

func buildFindQuery(filter outbound.AuditLogFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Action != nil {
		add("action = $%d", filter.Action.String())
	}
	if filter.EntityID != nil {
		add("entity_id = $%d", *filter.EntityID)
	}
	if filter.ByUser != nil {
		add("by_user = $%d", *filter.ByUser)
	}
	if filter.CreatedAt != nil {
		add("(created_at AT TIME ZONE 'UTC')::date = $%d::date", filter.CreatedAt.Format("2006-01-02"))
	}

	query := `SELECT id, action, entity_id, original_values, new_values, by_user, created_at, updated_at
		FROM user_manipulations_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"
	return query, args
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
