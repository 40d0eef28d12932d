//go:build unit

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/infra"
	"saverly/internal/infra/memory"
	"saverly/internal/usecase/shared"
	"saverly/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insert(ctx context.Context, store *memory.Store, rec *redemption.Record) error {
	return store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Redemptions().Insert(ctx, rec)
	})
}

func TestStore_InsertConstraints(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c := builder.NewCouponBuilder().BuildStored()
	store.AddCoupon(c)
	userID := uuid.New()

	first := builder.NewRedemptionBuilder().For(userID, c.ID()).Build()
	require.NoError(t, insert(ctx, store, first))

	t.Run("second pending record for the same pair", func(t *testing.T) {
		rec := builder.NewRedemptionBuilder().For(userID, c.ID()).With(func(b *builder.RedemptionBuilder) {
			b.ManualCode = "87654321"
		}).Build()

		err := insert(ctx, store, rec)

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
		assert.Equal(t, "uq_redemptions_pending_pair", infra.ConstraintOf(err))
	})

	t.Run("manual code shared by another pending record", func(t *testing.T) {
		rec := builder.NewRedemptionBuilder().For(uuid.New(), c.ID()).Build()

		err := insert(ctx, store, rec)

		require.Error(t, err)
		assert.Equal(t, "uq_redemptions_pending_code", infra.ConstraintOf(err))
	})

	t.Run("finalized records do not block the pair", func(t *testing.T) {
		rec := builder.NewRedemptionBuilder().For(userID, c.ID()).With(func(b *builder.RedemptionBuilder) {
			b.ManualCode = "11112222"
		}).RedeemedOn(builder.BaseTime.Add(-time.Hour)).Build()

		assert.NoError(t, insert(ctx, store, rec))
	})

	t.Run("unknown coupon", func(t *testing.T) {
		rec := builder.NewRedemptionBuilder().With(func(b *builder.RedemptionBuilder) {
			b.ManualCode = "33334444"
		}).Build()

		err := insert(ctx, store, rec)

		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
	})

	t.Run("injected failure", func(t *testing.T) {
		store.FailInserts(errors.New("connection reset"))
		defer store.FailInserts(nil)

		rec := builder.NewRedemptionBuilder().For(uuid.New(), c.ID()).With(func(b *builder.RedemptionBuilder) {
			b.ManualCode = "55556666"
		}).Build()

		err := insert(ctx, store, rec)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestStore_WithinRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c := builder.NewCouponBuilder().BuildStored()
	store.AddCoupon(c)
	rec := builder.NewRedemptionBuilder().For(uuid.New(), c.ID()).Build()
	boom := errors.New("boom")

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Redemptions().Insert(ctx, rec); err != nil {
			return err
		}
		if err := tx.Notifications().CreateJob(ctx, "redemption.confirmed", "business.x", []byte(`{}`), builder.BaseTime); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = store.FindByID(ctx, rec.ID())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.Empty(t, store.Jobs())
}

func TestStore_TransitionOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c := builder.NewCouponBuilder().BuildStored()
	store.AddCoupon(c)
	rec := builder.NewRedemptionBuilder().For(uuid.New(), c.ID()).Build()
	require.NoError(t, insert(ctx, store, rec))

	expire := func() error {
		return store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			loaded, err := tx.Reads().RedemptionByID(ctx, rec.ID())
			if err != nil {
				return err
			}
			if err := loaded.Expire(builder.BaseTime.Add(2 * time.Minute)); err != nil {
				return err
			}
			_, err = tx.Redemptions().Transition(ctx, loaded)
			return err
		})
	}

	require.NoError(t, expire())

	view, err := store.FindByID(ctx, rec.ID())
	require.NoError(t, err)
	assert.Equal(t, redemption.StatusExpired.String(), view.Status)
	assert.NotNil(t, view.FinalizedAt)
	assert.Error(t, expire())
}

func TestStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) { b.Title = "Free pastry" }).BuildStored()
	store.AddCoupon(c)
	userID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		rec := builder.NewRedemptionBuilder().For(userID, c.ID()).
			RedeemedOn(builder.BaseTime.Add(time.Duration(i) * time.Hour)).Build()
		require.NoError(t, insert(ctx, store, rec))
		ids = append(ids, rec.ID())
	}
	other := builder.NewRedemptionBuilder().For(uuid.New(), c.ID()).Build()
	require.NoError(t, insert(ctx, store, other))

	first, err := store.FindByUserFirstPage(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, ids[2], first[0].ID)
	assert.Equal(t, ids[1], first[1].ID)
	assert.Equal(t, "Free pastry", first[0].CouponTitle)

	last := first[len(first)-1]
	next, err := store.FindByUserKeyset(ctx, userID, last.CreatedAt, last.ID, 2)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, ids[0], next[0].ID)
}
