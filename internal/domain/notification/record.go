package notification

import (
	"database/sql"
	"time"
)

// Kind identifies the billing lifecycle moment a notification is sent for.
type Kind string

const (
	KindThreeDaysBefore Kind = "3_days_before"
	KindOneDayBefore    Kind = "1_day_before"
	KindDueToday        Kind = "due_today"
	KindOverdue         Kind = "overdue"
)

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindThreeDaysBefore, KindOneDayBefore, KindDueToday, KindOverdue:
		return true
	}
	return false
}

// Outcome is the result of a single send attempt.
type Outcome string

const (
	OutcomeSent   Outcome = "sent"
	OutcomeFailed Outcome = "failed"
)

// Record is one entry in the append-only log of attempted sends. Records
// are never mutated after creation; they exist for per-cycle duplicate
// suppression and audit, not for replay.
type Record struct {
	ID           int64
	ChargeID     int64
	Kind         Kind
	Recipient    string
	Subject      string
	Outcome      Outcome
	ErrorMessage sql.NullString
	CreatedAt    time.Time
}
