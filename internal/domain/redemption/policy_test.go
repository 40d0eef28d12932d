//go:build unit

package redemption_test

import (
	"testing"
	"time"

	"saverly/internal/domain/coupon"
	"saverly/internal/domain/redemption"
	"saverly/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(t *testing.T, n int) coupon.UsageLimit {
	t.Helper()
	l, err := coupon.Monthly(n)
	require.NoError(t, err)
	return l
}

func TestEvaluate_OneTime(t *testing.T) {
	now := builder.BaseTime
	period := redemption.PeriodAt(1, now)

	t.Run("empty history is allowed", func(t *testing.T) {
		d := redemption.Evaluate(coupon.OneTime(), nil, period, now)
		assert.True(t, d.Allowed)
		assert.Equal(t, 1, d.Remaining)
		assert.NoError(t, d.Reason)
	})

	t.Run("non-redeemed records never count", func(t *testing.T) {
		history := []*redemption.Record{
			builder.NewRedemptionBuilder().WithStatus(redemption.StatusPending).Build(),
			builder.NewRedemptionBuilder().WithStatus(redemption.StatusExpired).Build(),
			builder.NewRedemptionBuilder().WithStatus(redemption.StatusCancelled).Build(),
		}
		d := redemption.Evaluate(coupon.OneTime(), history, period, now)
		assert.True(t, d.Allowed)
		assert.Equal(t, 0, d.Used)
	})

	t.Run("any redeemed record blocks, even from a past year", func(t *testing.T) {
		old := builder.NewRedemptionBuilder().RedeemedOn(now.AddDate(-1, 0, 0)).Build()
		d := redemption.Evaluate(coupon.OneTime(), []*redemption.Record{old}, period, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.ErrorIs(t, d.Reason, redemption.ErrAlreadyRedeemed)
		assert.True(t, d.ResetsAt.IsZero())
	})
}

func TestEvaluate_Daily(t *testing.T) {
	now := time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC)
	period := redemption.PeriodAt(1, now)

	cases := []struct {
		name       string
		redeemedAt time.Time
		allowed    bool
	}{
		{name: "redeemed earlier the same UTC day", redeemedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), allowed: false},
		{name: "redeemed one second before UTC midnight yesterday", redeemedAt: time.Date(2025, 3, 4, 23, 59, 59, 0, time.UTC), allowed: true},
		{name: "same local day but previous UTC day", redeemedAt: time.Date(2025, 3, 5, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)), allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := builder.NewRedemptionBuilder().RedeemedOn(tc.redeemedAt).Build()
			d := redemption.Evaluate(coupon.Daily(), []*redemption.Record{rec}, period, now)
			assert.Equal(t, tc.allowed, d.Allowed)
			if !tc.allowed {
				assert.ErrorIs(t, d.Reason, redemption.ErrDailyLimitReached)
			}
			assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), d.ResetsAt)
		})
	}

	t.Run("allowed again just after UTC midnight", func(t *testing.T) {
		rec := builder.NewRedemptionBuilder().RedeemedOn(now).Build()
		next := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
		d := redemption.Evaluate(coupon.Daily(), []*redemption.Record{rec}, redemption.PeriodAt(1, next), next)
		assert.True(t, d.Allowed)
	})
}

func TestEvaluate_Monthly(t *testing.T) {
	// anchor on the 10th, now on the 5th: the period started on the 10th of the previous month
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	period := redemption.PeriodAt(10, now)
	require.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), period.Start)

	inPeriod := func(at time.Time) *redemption.Record {
		return builder.NewRedemptionBuilder().RedeemedOn(at).InPeriod(period.Start).Build()
	}

	t.Run("two redeemed in period with N=2 is blocked with remaining 0", func(t *testing.T) {
		history := []*redemption.Record{
			inPeriod(time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)),
			inPeriod(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		}
		d := redemption.Evaluate(monthly(t, 2), history, period, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.Equal(t, 2, d.Used)
		assert.Equal(t, 2, d.Max)
		assert.ErrorIs(t, d.Reason, redemption.ErrMonthlyLimitReached)
		assert.Equal(t, period.End, d.ResetsAt)
	})

	t.Run("records from an earlier period do not count", func(t *testing.T) {
		prev := redemption.PeriodAt(10, period.Start.Add(-time.Hour))
		history := []*redemption.Record{
			builder.NewRedemptionBuilder().RedeemedOn(prev.Start.Add(time.Hour)).InPeriod(prev.Start).Build(),
			builder.NewRedemptionBuilder().RedeemedOn(prev.Start.Add(2 * time.Hour)).InPeriod(prev.Start).Build(),
			inPeriod(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		}
		d := redemption.Evaluate(monthly(t, 2), history, period, now)
		assert.True(t, d.Allowed)
		assert.Equal(t, 1, d.Remaining)
	})

	t.Run("bound holds for every N", func(t *testing.T) {
		for n := 1; n <= 6; n++ {
			var history []*redemption.Record
			for used := 0; used <= n+1; used++ {
				d := redemption.Evaluate(monthly(t, n), history, period, now)
				assert.Equal(t, used < n, d.Allowed, "n=%d used=%d", n, used)
				assert.Equal(t, max(0, n-used), d.Remaining, "n=%d used=%d", n, used)
				history = append(history, inPeriod(now))
			}
		}
	})
}

func TestEvaluate_Unlimited(t *testing.T) {
	now := builder.BaseTime
	history := []*redemption.Record{
		builder.NewRedemptionBuilder().RedeemedOn(now).Build(),
		builder.NewRedemptionBuilder().RedeemedOn(now).Build(),
	}
	d := redemption.Evaluate(coupon.Unlimited(), history, redemption.PeriodAt(1, now), now)
	assert.True(t, d.Allowed)
	assert.Equal(t, redemption.Unlimited, d.Remaining)
	assert.Equal(t, 2, d.Used)
}
