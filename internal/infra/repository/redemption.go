package repository

import (
	"context"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/infra"
	"saverly/internal/infra/converter"
	"saverly/internal/infra/query"
	"saverly/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type RedemptionWriteQueries interface {
	InsertRedemption(ctx context.Context, db query.DBTX, arg query.InsertRedemptionParams) error
	SupersedePendingRedemptions(ctx context.Context, db query.DBTX, userID, couponID uuid.UUID, at time.Time) (int64, error)
	TransitionRedemption(ctx context.Context, db query.DBTX, arg query.TransitionRedemptionParams) (query.Redemption, error)
	ExpireStaleRedemptions(ctx context.Context, db query.DBTX, now time.Time, limit int32) ([]uuid.UUID, error)
}

type RedemptionRepository struct {
	queries RedemptionWriteQueries
	db      query.DBTX
}

func NewRedemptionRepository(queries RedemptionWriteQueries, db query.DBTX) *RedemptionRepository {
	return &RedemptionRepository{
		queries: queries,
		db:      db,
	}
}

func (r *RedemptionRepository) Insert(ctx context.Context, rec *redemption.Record) error {
	if err := r.queries.InsertRedemption(ctx, r.db, converter.RedemptionToInsertParams(rec)); err != nil {
		return infra.WrapRepoErr("failed to insert redemption", err)
	}
	return nil
}

func (r *RedemptionRepository) SupersedePending(ctx context.Context, userID, couponID uuid.UUID, at time.Time) (int64, error) {
	n, err := r.queries.SupersedePendingRedemptions(ctx, r.db, userID, couponID, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to supersede pending redemptions", err)
	}
	return n, nil
}

func (r *RedemptionRepository) Transition(ctx context.Context, rec *redemption.Record) (*redemption.Record, error) {
	if !redemption.StatusPending.CanTransition(rec.Status()) || rec.FinalizedAt() == nil {
		return nil, infra.NewRepoErr(infra.KindConflict, "redemption has no terminal transition to persist")
	}

	row, err := r.queries.TransitionRedemption(ctx, r.db, query.TransitionRedemptionParams{
		ID:         rec.ID(),
		Status:     rec.Status().String(),
		At:         *rec.FinalizedAt(),
		RedeemedAt: pgconv.TimePtrToPgtype(rec.RedeemedAt()),
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindConflict, "redemption is no longer pending")
		}
		return nil, infra.WrapRepoErr("failed to transition redemption", err)
	}

	stored, err := converter.RedemptionFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert redemption", err)
	}
	return stored, nil
}

func (r *RedemptionRepository) ExpireStale(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	// #nosec G115 -- sweep batch comes from config and is small
	ids, err := r.queries.ExpireStaleRedemptions(ctx, r.db, now, int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to expire stale redemptions", err)
	}
	return ids, nil
}
