package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeStatus is the lifecycle state of a recurring charge.
type ChargeStatus string

const (
	StatusActive     ChargeStatus = "active"
	StatusCancelled  ChargeStatus = "cancelled"
	StatusDelinquent ChargeStatus = "delinquent"
)

// RecurringCharge is a student's standing monthly billing configuration.
// At most one non-cancelled charge exists per student; the notification
// flags track which lifecycle emails were already sent for the current
// cycle and reset whenever NextChargeDate is recomputed.
type RecurringCharge struct {
	ID             int64
	StudentID      int64
	PlanID         int64
	Amount         decimal.Decimal
	DueDay         int       // civil calendar day of month, 1-31
	NextChargeDate time.Time // date only; advances monotonically
	Status         ChargeStatus

	NotifiedUpcoming bool // 3 days before due
	NotifiedEve      bool // 1 day before due
	NotifiedDueToday bool
	NotifiedOverdue  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetNotificationFlags clears all per-cycle notification flags. Must be
// called whenever NextChargeDate is recomputed, so the new cycle starts
// with a clean slate.
func (c *RecurringCharge) ResetNotificationFlags() {
	c.NotifiedUpcoming = false
	c.NotifiedEve = false
	c.NotifiedDueToday = false
	c.NotifiedOverdue = false
}
