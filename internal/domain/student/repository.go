package student

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Student entities.
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)
	Update(ctx context.Context, s *Student) error
	ListActive(ctx context.Context) ([]*Student, error)
}
