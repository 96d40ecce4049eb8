package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/backup"
)

var ErrBackupNotFound = fmt.Errorf("backup record not found")

type PostgresBackupRepository struct {
	db *sql.DB
}

func NewPostgresBackupRepository(db *sql.DB) *PostgresBackupRepository {
	return &PostgresBackupRepository{db: db}
}

func (r *PostgresBackupRepository) Create(ctx context.Context, b *backup.Backup) error {
	query := `INSERT INTO backups (file_name, file_path, size_bytes, duration_ms, status, error_message, started_at, finished_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		b.FileName, b.FilePath, b.SizeBytes, b.DurationMs, b.Status, b.ErrorMessage, b.StartedAt, b.FinishedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("error creating backup record: %w", err)
	}
	return nil
}

func (r *PostgresBackupRepository) Update(ctx context.Context, b *backup.Backup) error {
	query := `UPDATE backups
               SET size_bytes = $1, duration_ms = $2, status = $3, error_message = $4, finished_at = $5
               WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query,
		b.SizeBytes, b.DurationMs, b.Status, b.ErrorMessage, b.FinishedAt, b.ID)
	if err != nil {
		return fmt.Errorf("error updating backup record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking backup update result: %w", err)
	}
	if affected == 0 {
		return ErrBackupNotFound
	}
	return nil
}

func (r *PostgresBackupRepository) GetByID(ctx context.Context, id int64) (*backup.Backup, error) {
	query := `SELECT id, file_name, file_path, size_bytes, duration_ms, status, error_message, started_at, finished_at
               FROM backups WHERE id = $1`
	b := backup.Backup{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.FileName, &b.FilePath, &b.SizeBytes, &b.DurationMs,
		&b.Status, &b.ErrorMessage, &b.StartedAt, &b.FinishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBackupNotFound
		}
		return nil, fmt.Errorf("error getting backup record by ID: %w", err)
	}
	return &b, nil
}

func (r *PostgresBackupRepository) List(ctx context.Context) ([]*backup.Backup, error) {
	query := `SELECT id, file_name, file_path, size_bytes, duration_ms, status, error_message, started_at, finished_at
               FROM backups ORDER BY started_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing backup records: %w", err)
	}
	defer rows.Close()

	backups := make([]*backup.Backup, 0)
	for rows.Next() {
		b := backup.Backup{}
		if err := rows.Scan(
			&b.ID, &b.FileName, &b.FilePath, &b.SizeBytes, &b.DurationMs,
			&b.Status, &b.ErrorMessage, &b.StartedAt, &b.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning backup record row: %w", err)
		}
		backups = append(backups, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backup record rows: %w", err)
	}
	return backups, nil
}

func (r *PostgresBackupRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting backup record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking backup delete result: %w", err)
	}
	if affected == 0 {
		return ErrBackupNotFound
	}
	return nil
}
