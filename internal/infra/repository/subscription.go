package repository

import (
	"context"

	"saverly/internal/infra"
	"saverly/internal/infra/converter"
	"saverly/internal/infra/query"
	"saverly/internal/pkg/pgconv"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

type SubscriptionWriteQueries interface {
	InsertSubscriptionEvent(ctx context.Context, db query.DBTX, arg query.InsertSubscriptionEventParams) (int64, error)
	UpdateUserSubscription(ctx context.Context, db query.DBTX, arg query.UpdateUserSubscriptionParams) (int64, error)
}

type SubscriptionRepository struct {
	queries SubscriptionWriteQueries
	db      query.DBTX
}

func NewSubscriptionRepository(queries SubscriptionWriteQueries, db query.DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SubscriptionRepository) RecordEvent(ctx context.Context, ev shared.SubscriptionEvent) (bool, error) {
	n, err := r.queries.InsertSubscriptionEvent(ctx, r.db, query.InsertSubscriptionEventParams{
		ID:            ev.ID,
		StripeEventID: ev.StripeEventID,
		EventType:     ev.EventType,
		Status:        ev.Status,
		UserID:        pgconv.UUIDPtrToPgtype(ev.UserID),
		Payload:       ev.Payload,
		ReceivedAt:    ev.ReceivedAt,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to record subscription event", err)
	}
	return n > 0, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, userID uuid.UUID, upd shared.SubscriptionUpdate) error {
	n, err := r.queries.UpdateUserSubscription(ctx, r.db, converter.SubscriptionUpdateToParams(userID, upd))
	if err != nil {
		return infra.WrapRepoErr("failed to update subscription", err)
	}
	if n == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return nil
}
