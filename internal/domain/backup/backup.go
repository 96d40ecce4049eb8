package backup

import (
	"database/sql"
	"time"
)

// Status of a backup run.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Backup records a single database dump run: where the snapshot went, how
// long it took, and whether it concluded.
type Backup struct {
	ID           int64
	FileName     string
	FilePath     string
	SizeBytes    int64
	DurationMs   int64
	Status       Status
	ErrorMessage sql.NullString
	StartedAt    time.Time
	FinishedAt   sql.NullTime
}
