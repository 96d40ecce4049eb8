package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
)

// Custom errors specific to the recurring charge repository
var ErrChargeNotFound = fmt.Errorf("recurring charge not found")
var ErrDuplicateActiveCharge = fmt.Errorf("student already has a non-cancelled recurring charge")

const chargeColumns = `id, student_id, plan_id, amount, due_day, next_charge_date, status,
               notified_upcoming, notified_eve, notified_due_today, notified_overdue,
               created_at, updated_at`

type PostgresChargeRepository struct {
	db *sql.DB
}

func NewPostgresChargeRepository(db *sql.DB) *PostgresChargeRepository {
	return &PostgresChargeRepository{db: db}
}

func (r *PostgresChargeRepository) Create(ctx context.Context, c *billing.RecurringCharge) error {
	query := `INSERT INTO recurring_charges
               (student_id, plan_id, amount, due_day, next_charge_date, status,
                notified_upcoming, notified_eve, notified_due_today, notified_overdue)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		c.StudentID, c.PlanID, c.Amount, c.DueDay, c.NextChargeDate, c.Status,
		c.NotifiedUpcoming, c.NotifiedEve, c.NotifiedDueToday, c.NotifiedOverdue,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		// Partial unique index over non-cancelled rows per student.
		if strings.Contains(err.Error(), "recurring_charges_student_active_unique") {
			return ErrDuplicateActiveCharge
		}
		return fmt.Errorf("error creating recurring charge: %w", err)
	}
	return nil
}

func (r *PostgresChargeRepository) Update(ctx context.Context, c *billing.RecurringCharge) error {
	query := `UPDATE recurring_charges
               SET plan_id = $1, amount = $2, due_day = $3, next_charge_date = $4, status = $5,
                   notified_upcoming = $6, notified_eve = $7, notified_due_today = $8,
                   notified_overdue = $9, updated_at = NOW()
               WHERE id = $10
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		c.PlanID, c.Amount, c.DueDay, c.NextChargeDate, c.Status,
		c.NotifiedUpcoming, c.NotifiedEve, c.NotifiedDueToday, c.NotifiedOverdue, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrChargeNotFound
		}
		return fmt.Errorf("error updating recurring charge: %w", err)
	}
	return nil
}

func (r *PostgresChargeRepository) GetByID(ctx context.Context, id int64) (*billing.RecurringCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM recurring_charges WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresChargeRepository) GetActiveByStudent(ctx context.Context, studentID int64) (*billing.RecurringCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM recurring_charges
               WHERE student_id = $1 AND status != 'cancelled'
               ORDER BY created_at DESC LIMIT 1`
	return r.queryOne(ctx, query, studentID)
}

func (r *PostgresChargeRepository) ListDueWithin(ctx context.Context, cutoff time.Time) ([]*billing.RecurringCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM recurring_charges
               WHERE status = 'active' AND next_charge_date <= $1
               ORDER BY next_charge_date, student_id`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error querying due recurring charges: %w", err)
	}
	defer rows.Close()
	return scanCharges(rows)
}

func (r *PostgresChargeRepository) queryOne(ctx context.Context, query string, arg interface{}) (*billing.RecurringCharge, error) {
	c := billing.RecurringCharge{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.StudentID, &c.PlanID, &c.Amount, &c.DueDay, &c.NextChargeDate, &c.Status,
		&c.NotifiedUpcoming, &c.NotifiedEve, &c.NotifiedDueToday, &c.NotifiedOverdue,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("error getting recurring charge: %w", err)
	}
	return &c, nil
}

// Helper to scan multiple rows
func scanCharges(rows *sql.Rows) ([]*billing.RecurringCharge, error) {
	charges := make([]*billing.RecurringCharge, 0)
	for rows.Next() {
		c := billing.RecurringCharge{}
		if err := rows.Scan(
			&c.ID, &c.StudentID, &c.PlanID, &c.Amount, &c.DueDay, &c.NextChargeDate, &c.Status,
			&c.NotifiedUpcoming, &c.NotifiedEve, &c.NotifiedDueToday, &c.NotifiedOverdue,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning recurring charge row: %w", err)
		}
		charges = append(charges, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring charge rows: %w", err)
	}
	return charges, nil
}
