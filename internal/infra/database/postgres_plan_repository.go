package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
)

var ErrPlanNotFound = fmt.Errorf("plan not found")

type PostgresPlanRepository struct {
	db *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

func (r *PostgresPlanRepository) GetByID(ctx context.Context, id int64) (*billing.Plan, error) {
	query := `SELECT id, name, monthly_amount, is_active, created_at FROM plans WHERE id = $1`
	p := &billing.Plan{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.MonthlyAmount, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error getting plan by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPlanRepository) ListActive(ctx context.Context) ([]*billing.Plan, error) {
	query := `SELECT id, name, monthly_amount, is_active, created_at
               FROM plans WHERE is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*billing.Plan, 0)
	for rows.Next() {
		p := &billing.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyAmount, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}
