package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/notification"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, rec *notification.Record) error {
	query := `INSERT INTO notification_records (charge_id, kind, recipient, subject, outcome, error_message)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		rec.ChargeID, rec.Kind, rec.Recipient, rec.Subject, rec.Outcome, rec.ErrorMessage,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification record: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListByCharge(ctx context.Context, chargeID int64) ([]*notification.Record, error) {
	query := `SELECT id, charge_id, kind, recipient, subject, outcome, error_message, created_at
               FROM notification_records
               WHERE charge_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, chargeID)
	if err != nil {
		return nil, fmt.Errorf("error querying notification records by charge: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *PostgresNotificationRepository) ListRecent(ctx context.Context, limit int) ([]*notification.Record, error) {
	query := `SELECT id, charge_id, kind, recipient, subject, outcome, error_message, created_at
               FROM notification_records
               ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent notification records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Helper to scan multiple rows
func scanRecords(rows *sql.Rows) ([]*notification.Record, error) {
	records := make([]*notification.Record, 0)
	for rows.Next() {
		rec := notification.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.ChargeID, &rec.Kind, &rec.Recipient, &rec.Subject,
			&rec.Outcome, &rec.ErrorMessage, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning notification record row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification record rows: %w", err)
	}
	return records, nil
}
