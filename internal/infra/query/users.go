package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, role, business_id, subscription_status, subscription_period_start,
	subscription_period_end, subscription_anchor_day, stripe_customer_id, stripe_subscription_id`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Role, &u.BusinessID, &u.SubscriptionStatus, &u.SubscriptionPeriodStart,
		&u.SubscriptionPeriodEnd, &u.SubscriptionAnchorDay, &u.StripeCustomerID, &u.StripeSubscriptionID,
	)
	return u, err
}

const getUser = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, getUser, id))
}

const getUserByStripeCustomer = `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = $1`

func (q *Queries) GetUserByStripeCustomer(ctx context.Context, db DBTX, customerID string) (User, error) {
	return scanUser(db.QueryRow(ctx, getUserByStripeCustomer, customerID))
}

type UpdateUserSubscriptionParams struct {
	ID                   uuid.UUID
	Status               string
	PeriodStart          pgtype.Timestamptz
	PeriodEnd            pgtype.Timestamptz
	AnchorDay            pgtype.Int4
	StripeSubscriptionID pgtype.Text
}

const updateUserSubscription = `
UPDATE users
SET subscription_status = $2,
	subscription_period_start = $3,
	subscription_period_end = $4,
	subscription_anchor_day = COALESCE($5, subscription_anchor_day),
	stripe_subscription_id = COALESCE($6, stripe_subscription_id),
	updated_at = NOW()
WHERE id = $1`

func (q *Queries) UpdateUserSubscription(ctx context.Context, db DBTX, arg UpdateUserSubscriptionParams) (int64, error) {
	tag, err := db.Exec(ctx, updateUserSubscription,
		arg.ID, arg.Status, arg.PeriodStart, arg.PeriodEnd, arg.AnchorDay, arg.StripeSubscriptionID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
