package student

import (
	"time"
)

// Student represents an enrolled academy student.
type Student struct {
	ID            int64
	FullName      string
	Email         string
	IsScholarship bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
