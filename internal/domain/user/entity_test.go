//go:build unit

package user_test

import (
	"testing"
	"time"

	"saverly/internal/domain/user"
	"saverly/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.SubscriberBuilder)
	errIs  error
}

func TestSubscriber(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewSubscriberBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, user.RoleConsumer, actual.Role())
		assert.Equal(t, user.SubscriptionActive, actual.Status())
		assert.Equal(t, builder.BaseTime.AddDate(0, 0, -10).Day(), actual.AnchorDay().Int())
	})

	t.Run("construction rules", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "invalid role",
				mutate: func(b *builder.SubscriberBuilder) { b.Role = "viewer" },
				errIs:  user.ErrInvalidRole,
			},
			{
				name: "business role without business id",
				mutate: func(b *builder.SubscriberBuilder) {
					b.Role = user.RoleBusiness
					b.BusinessID = nil
				},
				errIs: user.ErrBusinessRequired,
			},
			{
				name:   "anchor day 0",
				mutate: func(b *builder.SubscriberBuilder) { b.WithAnchorDay(0) },
				errIs:  user.ErrInvalidAnchorDay,
			},
			{
				name:   "anchor day 32",
				mutate: func(b *builder.SubscriberBuilder) { b.WithAnchorDay(32) },
				errIs:  user.ErrInvalidAnchorDay,
			},
			{
				name:   "anchor day 31",
				mutate: func(b *builder.SubscriberBuilder) { b.WithAnchorDay(31) },
			},
		})
	})

	t.Run("anchor day falls back to period start, then 1", func(t *testing.T) {
		start := time.Date(2025, time.January, 17, 23, 0, 0, 0, time.UTC)
		s, err := builder.NewSubscriberBuilder().With(func(b *builder.SubscriberBuilder) {
			b.AnchorDay = nil
			b.PeriodStart = &start
		}).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 17, s.AnchorDay().Int())

		s, err = builder.NewSubscriberBuilder().With(func(b *builder.SubscriberBuilder) {
			b.AnchorDay = nil
			b.PeriodStart = nil
		}).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 1, s.AnchorDay().Int())
	})
}

func TestSubscriber_IsActiveAt(t *testing.T) {
	end := builder.BaseTime.Add(time.Hour)

	cases := []struct {
		name      string
		status    user.SubscriptionStatus
		periodEnd *time.Time
		now       time.Time
		want      bool
	}{
		{name: "active before period end", status: user.SubscriptionActive, periodEnd: &end, now: builder.BaseTime, want: true},
		{name: "trialing counts as active", status: user.SubscriptionTrialing, periodEnd: &end, now: builder.BaseTime, want: true},
		{name: "active at period end is lapsed", status: user.SubscriptionActive, periodEnd: &end, now: end, want: false},
		{name: "active with no period end", status: user.SubscriptionActive, now: builder.BaseTime, want: true},
		{name: "past due", status: user.SubscriptionPastDue, periodEnd: &end, now: builder.BaseTime, want: false},
		{name: "canceled", status: user.SubscriptionCanceled, periodEnd: &end, now: builder.BaseTime, want: false},
		{name: "inactive", status: user.SubscriptionInactive, now: builder.BaseTime, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := builder.NewSubscriberBuilder().With(func(b *builder.SubscriberBuilder) {
				b.Status = tc.status
				b.PeriodEnd = tc.periodEnd
			}).MustBuild()
			assert.Equal(t, tc.want, s.IsActiveAt(tc.now))
		})
	}
}

func TestSubscriber_CanConfirmFor(t *testing.T) {
	mine := uuid.New()
	other := uuid.New()

	merchant := builder.NewSubscriberBuilder().AsBusiness(mine).MustBuild()
	admin := builder.NewSubscriberBuilder().AsAdmin().MustBuild()
	consumer := builder.NewSubscriberBuilder().MustBuild()

	assert.True(t, merchant.CanConfirmFor(mine))
	assert.False(t, merchant.CanConfirmFor(other))
	assert.True(t, admin.CanConfirmFor(other))
	assert.False(t, consumer.CanConfirmFor(mine))
}

func TestNewSubscriptionStatus(t *testing.T) {
	got := map[string]user.SubscriptionStatus{}
	for _, in := range []string{"active", "trialing", "past_due", "canceled", "cancelled", "unpaid", "incomplete", "", "paused"} {
		got[in] = user.NewSubscriptionStatus(in)
	}
	want := map[string]user.SubscriptionStatus{
		"active":     user.SubscriptionActive,
		"trialing":   user.SubscriptionTrialing,
		"past_due":   user.SubscriptionPastDue,
		"canceled":   user.SubscriptionCanceled,
		"cancelled":  user.SubscriptionCanceled,
		"unpaid":     user.SubscriptionInactive,
		"incomplete": user.SubscriptionInactive,
		"":           user.SubscriptionInactive,
		"paused":     user.SubscriptionInactive,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status mapping mismatch (-want +got):\n%s", diff)
	}
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewSubscriberBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
