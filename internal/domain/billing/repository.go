package billing

import (
	"context"
	"time"
)

// PlanRepository defines read operations over membership plans.
type PlanRepository interface {
	GetByID(ctx context.Context, id int64) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
}

// ChargeRepository defines persistence operations for recurring charges.
type ChargeRepository interface {
	Create(ctx context.Context, c *RecurringCharge) error
	Update(ctx context.Context, c *RecurringCharge) error
	GetByID(ctx context.Context, id int64) (*RecurringCharge, error)
	// GetActiveByStudent returns the student's non-cancelled charge
	// (active or delinquent).
	GetActiveByStudent(ctx context.Context, studentID int64) (*RecurringCharge, error)
	// ListDueWithin returns all charges with status=active whose
	// NextChargeDate is on or before the cutoff date. Overdue charges are
	// naturally included since their due date is in the past.
	ListDueWithin(ctx context.Context, cutoff time.Time) ([]*RecurringCharge, error)
}
