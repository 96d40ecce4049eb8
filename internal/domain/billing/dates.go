package billing

import "time"

// All date arithmetic here is civil: a time.Time is read through its own
// Year/Month/Day components and durations play no part. Callers are
// responsible for deriving "today" in the academy's timezone before
// passing it in; dates loaded from the database (UTC midnight) and dates
// built locally then compare correctly.

// DateOnly strips the clock from t, keeping its civil date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextChargeDate computes the first unbilled due date on or after start:
// the due day of start's month when still reachable, otherwise the due day
// of the following month. Due days past the end of a month clamp to the
// month's last day (dueDay=31 in February yields Feb 28/29).
func NextChargeDate(start time.Time, dueDay int) time.Time {
	y, m, d := start.Date()

	candidate := dueDateInMonth(y, m, dueDay)
	if candidate.Day() >= d {
		return candidate
	}
	return dueDateInMonth(y, m+1, dueDay)
}

// DaysUntil returns the whole civil days from 'from' to 'to'. Negative
// when 'to' is in the past.
func DaysUntil(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

func dueDateInMonth(year int, month time.Month, dueDay int) time.Time {
	day := dueDay
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
