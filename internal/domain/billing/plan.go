package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a membership plan with a monthly price.
type Plan struct {
	ID            int64
	Name          string
	MonthlyAmount decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
}
