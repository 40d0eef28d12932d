//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"saverly/internal/domain/user"
	"saverly/internal/infra/memory"
	"saverly/internal/pkg/clock"
	"saverly/internal/usecase/commands"
	"saverly/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCustomer = "cus_test_123"

func newSubscriptionFixture(t *testing.T, mutate func(*builder.SubscriberBuilder)) (*memory.Store, commands.SubscriptionCommands, uuid.UUID) {
	t.Helper()
	store := memory.NewStore()
	b := builder.NewSubscriberBuilder()
	if mutate != nil {
		b.With(mutate)
	}
	sub := b.MustBuild()
	store.AddSubscriber(sub, testCustomer)
	return store, commands.NewSubscriptionCommands(store, clock.NewMockClock(builder.BaseTime)), sub.ID()
}

func subscriberOf(t *testing.T, store *memory.Store, id uuid.UUID) *user.Subscriber {
	t.Helper()
	sub, err := store.CommandReads().SubscriberByID(context.Background(), id)
	require.NoError(t, err)
	return sub
}

func TestSubscriptionCommands_ApplyBillingEvent(t *testing.T) {
	ctx := context.Background()
	periodStart := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)
	anchor := 14

	t.Run("subscription created sets status, period and anchor", func(t *testing.T) {
		store, cmds, userID := newSubscriptionFixture(t, func(b *builder.SubscriberBuilder) {
			b.Status = user.SubscriptionInactive
			b.PeriodStart = nil
			b.PeriodEnd = nil
			b.AnchorDay = nil
		})

		res, err := cmds.ApplyBillingEvent(ctx, commands.BillingEvent{
			ID:             "evt_1",
			Type:           commands.EventSubscriptionCreated,
			CustomerID:     testCustomer,
			SubscriptionID: "sub_1",
			Status:         "active",
			PeriodStart:    &periodStart,
			PeriodEnd:      &periodEnd,
			AnchorDay:      &anchor,
		})

		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.Equal(t, "applied", res.Status)
		assert.Equal(t, userID, res.UserID)

		sub := subscriberOf(t, store, userID)
		assert.Equal(t, user.SubscriptionActive, sub.Status())
		assert.Equal(t, anchor, sub.AnchorDay().Int())
		require.NotNil(t, sub.PeriodEnd())
		assert.Equal(t, periodEnd, *sub.PeriodEnd())
	})

	t.Run("replayed event changes nothing", func(t *testing.T) {
		store, cmds, userID := newSubscriptionFixture(t, nil)
		ev := commands.BillingEvent{ID: "evt_2", Type: commands.EventPaymentFailed, CustomerID: testCustomer}

		first, err := cmds.ApplyBillingEvent(ctx, ev)
		require.NoError(t, err)
		assert.True(t, first.Applied)
		assert.Equal(t, user.SubscriptionPastDue, subscriberOf(t, store, userID).Status())

		_, err = cmds.ApplyBillingEvent(ctx, commands.BillingEvent{ID: "evt_3", Type: commands.EventPaymentSucceeded, CustomerID: testCustomer})
		require.NoError(t, err)

		again, err := cmds.ApplyBillingEvent(ctx, ev)
		require.NoError(t, err)
		assert.False(t, again.Applied)
		assert.Equal(t, "duplicate", again.Status)
		assert.Equal(t, user.SubscriptionActive, subscriberOf(t, store, userID).Status())
	})

	t.Run("subscription deleted cancels access", func(t *testing.T) {
		store, cmds, userID := newSubscriptionFixture(t, nil)

		_, err := cmds.ApplyBillingEvent(ctx, commands.BillingEvent{ID: "evt_4", Type: commands.EventSubscriptionDeleted, CustomerID: testCustomer})

		require.NoError(t, err)
		sub := subscriberOf(t, store, userID)
		assert.Equal(t, user.SubscriptionCanceled, sub.Status())
		assert.False(t, sub.IsActiveAt(builder.BaseTime))
	})

	t.Run("update keeps the anchor of an established subscription", func(t *testing.T) {
		store, cmds, userID := newSubscriptionFixture(t, nil)
		before := subscriberOf(t, store, userID).AnchorDay().Int()
		other := 2

		_, err := cmds.ApplyBillingEvent(ctx, commands.BillingEvent{
			ID:         "evt_5",
			Type:       commands.EventSubscriptionUpdated,
			CustomerID: testCustomer,
			Status:     "trialing",
			AnchorDay:  &other,
		})

		require.NoError(t, err)
		sub := subscriberOf(t, store, userID)
		assert.Equal(t, user.SubscriptionTrialing, sub.Status())
		assert.Equal(t, before, sub.AnchorDay().Int())
	})

	t.Run("unhandled event types are recorded but ignored", func(t *testing.T) {
		store, cmds, userID := newSubscriptionFixture(t, nil)
		before := subscriberOf(t, store, userID).Status()

		res, err := cmds.ApplyBillingEvent(ctx, commands.BillingEvent{ID: "evt_6", Type: "customer.updated", CustomerID: testCustomer})

		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Equal(t, "ignored", res.Status)
		assert.Equal(t, before, subscriberOf(t, store, userID).Status())
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, cmds, _ := newSubscriptionFixture(t, nil)

		_, err := cmds.ApplyBillingEvent(ctx, commands.BillingEvent{ID: "evt_7", Type: commands.EventPaymentSucceeded, CustomerID: "cus_unknown"})

		assert.ErrorIs(t, err, commands.ErrCustomerNotFound)
	})
}
