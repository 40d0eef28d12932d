package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const couponColumns = `id, business_id, title, description, discount_kind, discount_value, discount_text,
	active, starts_at, ends_at, usage_limit, monthly_cap, current_usage_count, created_at, updated_at`

func scanCoupon(row pgx.Row) (Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.Title, &c.Description, &c.DiscountKind, &c.DiscountValue, &c.DiscountText,
		&c.Active, &c.StartsAt, &c.EndsAt, &c.UsageLimit, &c.MonthlyCap, &c.CurrentUsageCount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

const getCoupon = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

func (q *Queries) GetCoupon(ctx context.Context, db DBTX, id uuid.UUID) (Coupon, error) {
	return scanCoupon(db.QueryRow(ctx, getCoupon, id))
}

// Serializes confirmations against the same coupon until the transaction ends.
const lockCoupon = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 FOR UPDATE`

func (q *Queries) LockCoupon(ctx context.Context, db DBTX, id uuid.UUID) (Coupon, error) {
	return scanCoupon(db.QueryRow(ctx, lockCoupon, id))
}

const incrementCouponUsage = `
UPDATE coupons
SET current_usage_count = current_usage_count + 1, updated_at = NOW()
WHERE id = $1`

func (q *Queries) IncrementCouponUsage(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, incrementCouponUsage, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
