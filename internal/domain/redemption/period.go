package redemption

import "time"

// BillingPeriod is the half-open window [Start, End) a monthly limit is counted against.
type BillingPeriod struct {
	Start time.Time
	End   time.Time
}

func (p BillingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// CurrentPeriodStart returns the start of the billing month containing now for a subscription
// that renews on anchorDay. Periods start at 00:00 UTC on the anchor day, clamped to the last day
// of shorter months; the comparison with now's day uses the clamped anchor of now's month.
func CurrentPeriodStart(anchorDay int, now time.Time) time.Time {
	now = now.UTC()
	y, m, d := now.Date()
	if d >= anchorIn(y, m, anchorDay) {
		return time.Date(y, m, anchorIn(y, m, anchorDay), 0, 0, 0, 0, time.UTC)
	}
	py, pm := addMonths(y, m, -1)
	return time.Date(py, pm, anchorIn(py, pm, anchorDay), 0, 0, 0, 0, time.UTC)
}

// NextPeriodStart returns the first instant of the billing month after the one containing now.
func NextPeriodStart(anchorDay int, now time.Time) time.Time {
	start := CurrentPeriodStart(anchorDay, now)
	ny, nm := addMonths(start.Year(), start.Month(), 1)
	return time.Date(ny, nm, anchorIn(ny, nm, anchorDay), 0, 0, 0, 0, time.UTC)
}

func PeriodAt(anchorDay int, now time.Time) BillingPeriod {
	return BillingPeriod{
		Start: CurrentPeriodStart(anchorDay, now),
		End:   NextPeriodStart(anchorDay, now),
	}
}

func anchorIn(y int, m time.Month, anchorDay int) int {
	anchorDay = max(1, min(anchorDay, 31))
	return min(anchorDay, daysIn(y, m))
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func addMonths(y int, m time.Month, delta int) (int, time.Month) {
	t := time.Date(y, m+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
