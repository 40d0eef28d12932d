package converter

import (
	"saverly/internal/domain/coupon"
	"saverly/internal/infra/query"
	"saverly/internal/pkg/pgconv"
)

func CouponFromRow(row query.Coupon) (*coupon.Coupon, error) {
	discount, err := coupon.NewDiscount(row.DiscountKind, row.DiscountValue, row.DiscountText)
	if err != nil {
		return nil, err
	}

	limit, err := coupon.ParseUsageLimit(row.UsageLimit, pgconv.IntPtrFromPgtype(row.MonthlyCap))
	if err != nil {
		return nil, err
	}

	return coupon.Reconstruct(
		row.ID, row.BusinessID,
		row.Title, row.Description,
		discount,
		row.Active,
		row.StartsAt.UTC(), row.EndsAt.UTC(),
		limit,
		row.CurrentUsageCount,
		row.CreatedAt.UTC(), row.UpdatedAt.UTC(),
	), nil
}
