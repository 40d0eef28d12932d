package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const redemptionColumns = `id, user_id, coupon_id, business_id, status, qr_payload, manual_code,
	period_start, created_at, expires_at, redeemed_at, finalized_at`

func scanRedemption(row pgx.Row) (Redemption, error) {
	var r Redemption
	err := row.Scan(
		&r.ID, &r.UserID, &r.CouponID, &r.BusinessID, &r.Status, &r.QRPayload, &r.ManualCode,
		&r.PeriodStart, &r.CreatedAt, &r.ExpiresAt, &r.RedeemedAt, &r.FinalizedAt,
	)
	return r, err
}

func collectRedemptions(rows pgx.Rows, err error) ([]Redemption, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Redemption, error) {
		return scanRedemption(row)
	})
}

type InsertRedemptionParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CouponID    uuid.UUID
	BusinessID  uuid.UUID
	QRPayload   string
	ManualCode  string
	PeriodStart time.Time
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

const insertRedemption = `
INSERT INTO redemptions (
	id, user_id, coupon_id, business_id, status, qr_payload, manual_code,
	period_start, created_at, expires_at
) VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7, $8, $9)`

func (q *Queries) InsertRedemption(ctx context.Context, db DBTX, arg InsertRedemptionParams) error {
	_, err := db.Exec(ctx, insertRedemption,
		arg.ID, arg.UserID, arg.CouponID, arg.BusinessID, arg.QRPayload, arg.ManualCode,
		arg.PeriodStart, arg.CreatedAt, arg.ExpiresAt,
	)
	return err
}

const supersedePendingRedemptions = `
UPDATE redemptions
SET status = 'cancelled', finalized_at = $3
WHERE user_id = $1 AND coupon_id = $2 AND status = 'pending'`

func (q *Queries) SupersedePendingRedemptions(ctx context.Context, db DBTX, userID, couponID uuid.UUID, at time.Time) (int64, error) {
	tag, err := db.Exec(ctx, supersedePendingRedemptions, userID, couponID, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type TransitionRedemptionParams struct {
	ID         uuid.UUID
	Status     string
	At         time.Time
	RedeemedAt pgtype.Timestamptz
}

// Only a pending row moves; anything else yields pgx.ErrNoRows.
const transitionRedemption = `
UPDATE redemptions
SET status = $2, finalized_at = $3, redeemed_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING ` + redemptionColumns

func (q *Queries) TransitionRedemption(ctx context.Context, db DBTX, arg TransitionRedemptionParams) (Redemption, error) {
	return scanRedemption(db.QueryRow(ctx, transitionRedemption, arg.ID, arg.Status, arg.At, arg.RedeemedAt))
}

const expireStaleRedemptions = `
UPDATE redemptions
SET status = 'expired', finalized_at = $1
WHERE id IN (
	SELECT id FROM redemptions
	WHERE status = 'pending' AND expires_at < $1
	ORDER BY expires_at
	LIMIT $2
	FOR UPDATE SKIP LOCKED
) AND status = 'pending'
RETURNING id`

func (q *Queries) ExpireStaleRedemptions(ctx context.Context, db DBTX, now time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, expireStaleRedemptions, now, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

const getRedemption = `SELECT ` + redemptionColumns + ` FROM redemptions WHERE id = $1`

func (q *Queries) GetRedemption(ctx context.Context, db DBTX, id uuid.UUID) (Redemption, error) {
	return scanRedemption(db.QueryRow(ctx, getRedemption, id))
}

const getPendingRedemptionByCode = `
SELECT ` + redemptionColumns + ` FROM redemptions
WHERE manual_code = $1 AND status = 'pending'`

func (q *Queries) GetPendingRedemptionByCode(ctx context.Context, db DBTX, code string) (Redemption, error) {
	return scanRedemption(db.QueryRow(ctx, getPendingRedemptionByCode, code))
}

const listRedemptionHistory = `
SELECT ` + redemptionColumns + ` FROM redemptions
WHERE user_id = $1 AND coupon_id = $2
ORDER BY created_at`

func (q *Queries) ListRedemptionHistory(ctx context.Context, db DBTX, userID, couponID uuid.UUID) ([]Redemption, error) {
	return collectRedemptions(db.Query(ctx, listRedemptionHistory, userID, couponID))
}

const redemptionWithCouponColumns = `r.id, r.user_id, r.coupon_id, r.business_id, r.status, r.qr_payload,
	r.manual_code, r.period_start, r.created_at, r.expires_at, r.redeemed_at, r.finalized_at, c.title`

func scanRedemptionWithCoupon(row pgx.Row) (RedemptionWithCoupon, error) {
	var r RedemptionWithCoupon
	err := row.Scan(
		&r.ID, &r.UserID, &r.CouponID, &r.BusinessID, &r.Status, &r.QRPayload, &r.ManualCode,
		&r.PeriodStart, &r.CreatedAt, &r.ExpiresAt, &r.RedeemedAt, &r.FinalizedAt, &r.CouponTitle,
	)
	return r, err
}

func collectRedemptionsWithCoupon(rows pgx.Rows, err error) ([]RedemptionWithCoupon, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (RedemptionWithCoupon, error) {
		return scanRedemptionWithCoupon(row)
	})
}

const getRedemptionWithCoupon = `
SELECT ` + redemptionWithCouponColumns + `
FROM redemptions r
JOIN coupons c ON c.id = r.coupon_id
WHERE r.id = $1`

func (q *Queries) GetRedemptionWithCoupon(ctx context.Context, db DBTX, id uuid.UUID) (RedemptionWithCoupon, error) {
	return scanRedemptionWithCoupon(db.QueryRow(ctx, getRedemptionWithCoupon, id))
}

const listRedemptionsByUser = `
SELECT ` + redemptionWithCouponColumns + `
FROM redemptions r
JOIN coupons c ON c.id = r.coupon_id
WHERE r.user_id = $1
ORDER BY r.created_at DESC, r.id DESC
LIMIT $2`

func (q *Queries) ListRedemptionsByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int32) ([]RedemptionWithCoupon, error) {
	return collectRedemptionsWithCoupon(db.Query(ctx, listRedemptionsByUser, userID, limit))
}

const listRedemptionsByUserKeyset = `
SELECT ` + redemptionWithCouponColumns + `
FROM redemptions r
JOIN coupons c ON c.id = r.coupon_id
WHERE r.user_id = $1 AND (r.created_at, r.id) < ($2, $3)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

func (q *Queries) ListRedemptionsByUserKeyset(ctx context.Context, db DBTX, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]RedemptionWithCoupon, error) {
	return collectRedemptionsWithCoupon(db.Query(ctx, listRedemptionsByUserKeyset, userID, lastCreatedAt, lastID, limit))
}
