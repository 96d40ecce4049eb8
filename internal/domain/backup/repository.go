package backup

import (
	"context"
)

// Repository defines persistence operations for backup records.
type Repository interface {
	Create(ctx context.Context, b *Backup) error
	Update(ctx context.Context, b *Backup) error
	GetByID(ctx context.Context, id int64) (*Backup, error)
	// List returns all backup records, most recent first.
	List(ctx context.Context) ([]*Backup, error)
	Delete(ctx context.Context, id int64) error
}
