package readstore

import (
	"context"

	"saverly/internal/domain/coupon"
	"saverly/internal/infra"
	"saverly/internal/infra/converter"
	"saverly/internal/infra/query"

	"github.com/google/uuid"
)

type CouponReadQueries interface {
	GetCoupon(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Coupon, error)
}

type CouponReadStore struct {
	queries CouponReadQueries
	db      query.DBTX
}

func NewCouponReadStore(queries CouponReadQueries, db query.DBTX) *CouponReadStore {
	return &CouponReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row, err := s.queries.GetCoupon(ctx, s.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get coupon", err)
	}

	c, err := converter.CouponFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert coupon", err)
	}
	return c, nil
}
