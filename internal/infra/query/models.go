package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Redemption struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CouponID    uuid.UUID
	BusinessID  uuid.UUID
	Status      string
	QRPayload   string
	ManualCode  string
	PeriodStart time.Time
	CreatedAt   time.Time
	ExpiresAt   time.Time
	RedeemedAt  pgtype.Timestamptz
	FinalizedAt pgtype.Timestamptz
}

type RedemptionWithCoupon struct {
	Redemption
	CouponTitle string
}

type Coupon struct {
	ID                uuid.UUID
	BusinessID        uuid.UUID
	Title             string
	Description       string
	DiscountKind      string
	DiscountValue     int64
	DiscountText      string
	Active            bool
	StartsAt          time.Time
	EndsAt            time.Time
	UsageLimit        string
	MonthlyCap        pgtype.Int4
	CurrentUsageCount int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type User struct {
	ID                      uuid.UUID
	Email                   string
	Role                    string
	BusinessID              pgtype.UUID
	SubscriptionStatus      string
	SubscriptionPeriodStart pgtype.Timestamptz
	SubscriptionPeriodEnd   pgtype.Timestamptz
	SubscriptionAnchorDay   pgtype.Int4
	StripeCustomerID        pgtype.Text
	StripeSubscriptionID    pgtype.Text
}

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int32
	Status    string
	LastError pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}
