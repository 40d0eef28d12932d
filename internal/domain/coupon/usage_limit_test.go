//go:build unit

package coupon_test

import (
	"testing"

	"saverly/internal/domain/coupon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsageLimit(t *testing.T) {
	three := 3
	zero := 0

	cases := []struct {
		name      string
		category  string
		cap       *int
		wantKind  coupon.LimitKind
		wantCap   int
		wantCanon string
		errIs     error
	}{
		{name: "one_time", category: "one_time", wantKind: coupon.LimitOneTime, wantCap: 1, wantCanon: "one_time"},
		{name: "daily with spaces and case", category: "  Daily ", wantKind: coupon.LimitDaily, wantCap: 1, wantCanon: "daily"},
		{name: "unlimited", category: "unlimited", wantKind: coupon.LimitUnlimited, wantCap: 0, wantCanon: "unlimited"},
		{name: "monthly_one word form", category: "monthly_one", wantKind: coupon.LimitMonthly, wantCap: 1, wantCanon: "monthly_1"},
		{name: "monthly_two word form", category: "monthly_two", wantKind: coupon.LimitMonthly, wantCap: 2, wantCanon: "monthly_2"},
		{name: "monthly_four word form", category: "monthly_four", wantKind: coupon.LimitMonthly, wantCap: 4, wantCanon: "monthly_4"},
		{name: "monthly_N numeric form", category: "monthly_7", wantKind: coupon.LimitMonthly, wantCap: 7, wantCanon: "monthly_7"},
		{name: "N_per_month legacy form", category: "3_per_month", wantKind: coupon.LimitMonthly, wantCap: 3, wantCanon: "monthly_3"},
		{name: "monthly with cap column", category: "monthly", cap: &three, wantKind: coupon.LimitMonthly, wantCap: 3, wantCanon: "monthly_3"},
		{name: "monthly without cap", category: "monthly", errIs: coupon.ErrInvalidUsageLimit},
		{name: "monthly with zero cap", category: "monthly", cap: &zero, errIs: coupon.ErrInvalidUsageLimit},
		{name: "monthly_0", category: "monthly_0", errIs: coupon.ErrInvalidUsageLimit},
		{name: "unknown category", category: "weekly", errIs: coupon.ErrInvalidUsageLimit},
		{name: "empty category", category: "", errIs: coupon.ErrInvalidUsageLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coupon.ParseUsageLimit(tc.category, tc.cap)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, got.Kind())
			assert.Equal(t, tc.wantCap, got.MonthlyCap())
			assert.Equal(t, tc.wantCanon, got.String())
		})
	}
}

func TestUsageLimit_StorageForm(t *testing.T) {
	t.Run("canonical category parses back to the same limit", func(t *testing.T) {
		limits := []coupon.UsageLimit{coupon.OneTime(), coupon.Daily(), coupon.Unlimited()}
		m, err := coupon.Monthly(2)
		require.NoError(t, err)
		limits = append(limits, m)

		for _, l := range limits {
			back, err := coupon.ParseUsageLimit(l.Category(), l.Cap())
			require.NoError(t, err)
			assert.Equal(t, l, back)
		}
	})

	t.Run("only monthly exposes a cap", func(t *testing.T) {
		assert.Nil(t, coupon.OneTime().Cap())
		assert.Nil(t, coupon.Unlimited().Cap())
		m, _ := coupon.Monthly(4)
		require.NotNil(t, m.Cap())
		assert.Equal(t, 4, *m.Cap())
	})
}

func TestUsageLimit_ResetInfo(t *testing.T) {
	m, _ := coupon.Monthly(2)
	assert.Equal(t, "One time use only", coupon.OneTime().ResetInfo(10))
	assert.Equal(t, "Resets daily at midnight UTC", coupon.Daily().ResetInfo(10))
	assert.Equal(t, "Resets monthly on day 10 of your billing cycle", m.ResetInfo(10))
	assert.Equal(t, "No usage limit", coupon.Unlimited().ResetInfo(10))
}
