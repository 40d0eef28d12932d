package queries

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionView represents read-optimized redemption data
type RedemptionView struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CouponID    uuid.UUID  `json:"coupon_id"`
	CouponTitle string     `json:"coupon_title"`
	BusinessID  uuid.UUID  `json:"business_id"`
	Status      string     `json:"status"`
	QRPayload   string     `json:"qr_payload"`
	ManualCode  string     `json:"manual_code"`
	PeriodStart time.Time  `json:"period_start"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RedeemedAt  *time.Time `json:"redeemed_at,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

type RemainingView struct {
	ID        uuid.UUID     `json:"id"`
	Status    string        `json:"status"`
	Remaining time.Duration `json:"remaining"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// UsageView summarizes where a user stands against a coupon's usage limit.
type UsageView struct {
	CouponID     uuid.UUID  `json:"coupon_id"`
	CanRedeem    bool       `json:"can_redeem"`
	Reason       string     `json:"reason,omitempty"`
	CurrentUsage int        `json:"current_usage"`
	MaxAllowed   int        `json:"max_allowed"`
	Remaining    int        `json:"remaining"`
	UsageType    string     `json:"usage_type"`
	ResetInfo    string     `json:"reset_info"`
	NextResetAt  *time.Time `json:"next_reset_at,omitempty"`
}
