package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/dashboard"

	"github.com/shopspring/decimal"
)

type PostgresDashboardRepository struct {
	db *sql.DB
}

func NewPostgresDashboardRepository(db *sql.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{db: db}
}

// Summary runs the dashboard aggregation queries. All metrics are straight
// SQL over the billing and notification tables.
func (r *PostgresDashboardRepository) Summary(ctx context.Context, now time.Time, windowDays int) (*dashboard.Summary, error) {
	s := &dashboard.Summary{ExpectedMonthlyRevenue: decimal.Zero}

	chargeQuery := `SELECT
               COUNT(*) FILTER (WHERE status = 'active'),
               COUNT(*) FILTER (WHERE status = 'delinquent'),
               COALESCE(SUM(amount) FILTER (WHERE status IN ('active', 'delinquent')), 0)
               FROM recurring_charges`
	if err := r.db.QueryRowContext(ctx, chargeQuery).
		Scan(&s.ActiveCharges, &s.DelinquentCharges, &s.ExpectedMonthlyRevenue); err != nil {
		return nil, fmt.Errorf("error aggregating recurring charges: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, windowDays)
	dueQuery := `SELECT COUNT(*) FROM recurring_charges
               WHERE status = 'active' AND next_charge_date BETWEEN $1 AND $2`
	if err := r.db.QueryRowContext(ctx, dueQuery, today, cutoff).Scan(&s.DueWithinWindow); err != nil {
		return nil, fmt.Errorf("error counting charges due in window: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	notifQuery := `SELECT
               COUNT(*) FILTER (WHERE outcome = 'sent'),
               COUNT(*) FILTER (WHERE outcome = 'failed')
               FROM notification_records WHERE created_at >= $1`
	if err := r.db.QueryRowContext(ctx, notifQuery, monthStart).
		Scan(&s.SentThisMonth, &s.FailedThisMonth); err != nil {
		return nil, fmt.Errorf("error aggregating notification records: %w", err)
	}

	return s, nil
}
