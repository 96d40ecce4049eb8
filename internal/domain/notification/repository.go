package notification

import (
	"context"
)

// Repository defines operations over the notification log.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	ListByCharge(ctx context.Context, chargeID int64) ([]*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
