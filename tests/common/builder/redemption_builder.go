//go:build unit || e2e

package builder

import (
	"time"

	"saverly/internal/domain/redemption"

	"github.com/google/uuid"
)

type RedemptionBuilder struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CouponID    uuid.UUID
	BusinessID  uuid.UUID
	Status      redemption.Status
	QRPayload   string
	ManualCode  string
	PeriodStart time.Time
	CreatedAt   time.Time
	RedeemedAt  *time.Time
	FinalizedAt *time.Time
}

func NewRedemptionBuilder() *RedemptionBuilder {
	return &RedemptionBuilder{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		CouponID:    uuid.New(),
		BusinessID:  uuid.New(),
		Status:      redemption.StatusPending,
		QRPayload:   "payload",
		ManualCode:  "12345678",
		PeriodStart: redemption.CurrentPeriodStart(1, BaseTime),
		CreatedAt:   BaseTime,
	}
}

func (b *RedemptionBuilder) With(mutate func(*RedemptionBuilder)) *RedemptionBuilder {
	mutate(b)
	return b
}

func (b *RedemptionBuilder) For(userID, couponID uuid.UUID) *RedemptionBuilder {
	b.UserID = userID
	b.CouponID = couponID
	return b
}

// RedeemedOn marks the record redeemed at t.
func (b *RedemptionBuilder) RedeemedOn(t time.Time) *RedemptionBuilder {
	b.Status = redemption.StatusRedeemed
	b.CreatedAt = t.Add(-10 * time.Second)
	b.RedeemedAt = &t
	b.FinalizedAt = &t
	return b
}

func (b *RedemptionBuilder) InPeriod(start time.Time) *RedemptionBuilder {
	b.PeriodStart = start
	return b
}

func (b *RedemptionBuilder) WithStatus(s redemption.Status) *RedemptionBuilder {
	b.Status = s
	return b
}

func (b *RedemptionBuilder) Build() *redemption.Record {
	return redemption.Reconstruct(redemption.ReconstructParams{
		ID:          b.ID,
		UserID:      b.UserID,
		CouponID:    b.CouponID,
		BusinessID:  b.BusinessID,
		Status:      b.Status,
		QRPayload:   b.QRPayload,
		ManualCode:  b.ManualCode,
		PeriodStart: b.PeriodStart,
		CreatedAt:   b.CreatedAt,
		ExpiresAt:   b.CreatedAt.Add(redemption.TokenTTL),
		RedeemedAt:  b.RedeemedAt,
		FinalizedAt: b.FinalizedAt,
	})
}
