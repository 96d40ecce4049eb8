package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextChargeDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		dueDay int
		want   time.Time
	}{
		{
			name:   "before due day stays in same month",
			start:  date(2025, time.March, 3),
			dueDay: 5,
			want:   date(2025, time.March, 5),
		},
		{
			name:   "on the due day bills the same day",
			start:  date(2025, time.March, 5),
			dueDay: 5,
			want:   date(2025, time.March, 5),
		},
		{
			name:   "past due day rolls to next month",
			start:  date(2025, time.April, 10),
			dueDay: 5,
			want:   date(2025, time.May, 5),
		},
		{
			name:   "december rolls into january",
			start:  date(2025, time.December, 20),
			dueDay: 10,
			want:   date(2026, time.January, 10),
		},
		{
			name:   "due day 31 clamps in a 30-day month",
			start:  date(2025, time.April, 2),
			dueDay: 31,
			want:   date(2025, time.April, 30),
		},
		{
			name:   "due day 31 clamps in february",
			start:  date(2025, time.February, 1),
			dueDay: 31,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "due day 31 clamps in leap february",
			start:  date(2024, time.February, 1),
			dueDay: 31,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "clamped due day on last day of month bills same day",
			start:  date(2025, time.February, 28),
			dueDay: 30,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "due day just passed rolls to next month",
			start:  date(2025, time.March, 30),
			dueDay: 29,
			want:   date(2025, time.April, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextChargeDate(tt.start, tt.dueDay)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			assert.False(t, got.Before(DateOnly(tt.start)), "next charge date must never be in the past")
		})
	}
}

func TestNextChargeDateNeverPast(t *testing.T) {
	// Sweep every start day of a month against every due day.
	for startDay := 1; startDay <= 31; startDay++ {
		for dueDay := 1; dueDay <= 31; dueDay++ {
			start := date(2025, time.January, startDay)
			got := NextChargeDate(start, dueDay)
			assert.False(t, got.Before(start),
				"start day %d, due day %d: %s is before %s", startDay, dueDay, got, start)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	today := date(2025, time.June, 2)

	assert.Equal(t, 3, DaysUntil(today, date(2025, time.June, 5)))
	assert.Equal(t, 1, DaysUntil(today, date(2025, time.June, 3)))
	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, -4, DaysUntil(today, date(2025, time.May, 29)))
	assert.Equal(t, 29, DaysUntil(today, date(2025, time.July, 1)))
}

func TestDaysUntilIgnoresClock(t *testing.T) {
	loc, err := time.LoadLocation("America/Manaus")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// "Today" carries local wall-clock time; the target is a UTC-midnight
	// date as loaded from the database. Only civil dates must matter.
	now := time.Date(2025, time.June, 2, 23, 45, 0, 0, loc)
	assert.Equal(t, 3, DaysUntil(now, date(2025, time.June, 5)))
}

func TestDaysUntilDueScenario(t *testing.T) {
	// Plan of 150.00 with due day 5, configured on the 10th: next charge
	// is the 5th of the following month and daysUntilDue descends through
	// the notification boundaries on subsequent daily ticks.
	next := NextChargeDate(date(2025, time.June, 10), 5)
	assert.True(t, next.Equal(date(2025, time.July, 5)))

	wantByDay := map[int]int{1: 4, 2: 3, 4: 1, 5: 0, 6: -1}
	for day, want := range wantByDay {
		assert.Equal(t, want, DaysUntil(date(2025, time.July, day), next), "tick on July %d", day)
	}
}
