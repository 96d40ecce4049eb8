package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the read-only aggregates shown on the admin dashboard.
type Summary struct {
	ActiveCharges          int
	DelinquentCharges      int
	ExpectedMonthlyRevenue decimal.Decimal
	DueWithinWindow        int
	SentThisMonth          int
	FailedThisMonth        int
}

// Repository produces a Summary by straight SQL aggregation.
type Repository interface {
	// Summary aggregates as of 'now' (taken in the academy timezone);
	// windowDays bounds the "due soon" count.
	Summary(ctx context.Context, now time.Time, windowDays int) (*Summary, error)
}
