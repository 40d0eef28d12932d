//go:build unit

package redemption_test

import (
	"testing"
	"time"

	"saverly/internal/domain/redemption"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentPeriodStart(t *testing.T) {
	cases := []struct {
		name   string
		anchor int
		now    time.Time
		want   time.Time
	}{
		{name: "on the anchor day", anchor: 10, now: date(2025, 3, 10).Add(9 * time.Hour), want: date(2025, 3, 10)},
		{name: "after the anchor day", anchor: 10, now: date(2025, 3, 20), want: date(2025, 3, 10)},
		{name: "before the anchor day uses previous month", anchor: 10, now: date(2025, 3, 5), want: date(2025, 2, 10)},
		{name: "anchor 31 in mid February is January 31", anchor: 31, now: date(2025, 2, 15), want: date(2025, 1, 31)},
		{name: "anchor 31 on the last day of February clamps to Feb 28", anchor: 31, now: date(2025, 2, 28), want: date(2025, 2, 28)},
		{name: "anchor 31 in a leap February clamps to Feb 29", anchor: 31, now: date(2024, 2, 29), want: date(2024, 2, 29)},
		{name: "anchor 31 early March uses clamped February", anchor: 31, now: date(2025, 3, 15), want: date(2025, 2, 28)},
		{name: "anchor 30 on March 1 uses clamped February", anchor: 30, now: date(2025, 3, 1), want: date(2025, 2, 28)},
		{name: "anchor 31 in a 30-day month clamps to the 30th", anchor: 31, now: date(2025, 4, 30), want: date(2025, 4, 30)},
		{name: "January before anchor crosses the year", anchor: 15, now: date(2025, 1, 3), want: date(2024, 12, 15)},
		{name: "anchor 1 is the calendar month", anchor: 1, now: date(2025, 7, 31), want: date(2025, 7, 1)},
		{name: "non-UTC input is evaluated in UTC", anchor: 10, now: time.Date(2025, 3, 10, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), want: date(2025, 2, 10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := redemption.CurrentPeriodStart(tc.anchor, tc.now)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestCurrentPeriodStart_IsStable(t *testing.T) {
	now := date(2025, 2, 15).Add(13*time.Hour + 7*time.Minute)
	first := redemption.CurrentPeriodStart(31, now)
	for n := 0; n < 10; n++ {
		assert.Equal(t, first, redemption.CurrentPeriodStart(31, now))
	}
}

func TestNextPeriodStart(t *testing.T) {
	assert.Equal(t, date(2025, 2, 28), redemption.NextPeriodStart(31, date(2025, 2, 15)))
	assert.Equal(t, date(2025, 3, 31), redemption.NextPeriodStart(31, date(2025, 3, 1)))
	assert.Equal(t, date(2025, 1, 10), redemption.NextPeriodStart(10, date(2024, 12, 25)))
}

func TestPeriodAt_Contains(t *testing.T) {
	p := redemption.PeriodAt(10, date(2025, 3, 5))
	assert.Equal(t, date(2025, 2, 10), p.Start)
	assert.Equal(t, date(2025, 3, 10), p.End)
	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End.Add(-time.Nanosecond)))
	assert.False(t, p.Contains(p.End))
}
