package repository

import (
	"context"

	"saverly/internal/domain/coupon"
	"saverly/internal/infra"
	"saverly/internal/infra/converter"
	"saverly/internal/infra/query"

	"github.com/google/uuid"
)

type CouponWriteQueries interface {
	LockCoupon(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Coupon, error)
	IncrementCouponUsage(ctx context.Context, db query.DBTX, id uuid.UUID) (int64, error)
}

type CouponRepository struct {
	queries CouponWriteQueries
	db      query.DBTX
}

func NewCouponRepository(queries CouponWriteQueries, db query.DBTX) *CouponRepository {
	return &CouponRepository{
		queries: queries,
		db:      db,
	}
}

func (r *CouponRepository) Lock(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row, err := r.queries.LockCoupon(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock coupon", err)
	}

	c, err := converter.CouponFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert coupon", err)
	}
	return c, nil
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.IncrementCouponUsage(ctx, r.db, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	if n == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "coupon not found")
	}
	return nil
}
