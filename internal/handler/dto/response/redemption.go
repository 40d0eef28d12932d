package response

import (
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/usecase/commands"
	"saverly/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RedemptionResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	CouponID    uuid.UUID  `json:"couponId"`
	CouponTitle string     `json:"couponTitle,omitempty"`
	BusinessID  uuid.UUID  `json:"businessId"`
	Status      string     `json:"status"`
	QRPayload   string     `json:"qrPayload,omitempty"`
	ManualCode  string     `json:"manualCode,omitempty"`
	PeriodStart time.Time  `json:"periodStart"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	RedeemedAt  *time.Time `json:"redeemedAt,omitempty"`
	FinalizedAt *time.Time `json:"finalizedAt,omitempty"`
}

// FinalizeResponse answers expire and cancel. A record that was already terminal is still a
// success for the caller, flagged with AlreadyFinalized.
type FinalizeResponse struct {
	Redemption       *RedemptionResponse `json:"redemption"`
	AlreadyFinalized bool                `json:"alreadyFinalized"`
}

type StartRedemptionResponse struct {
	RedemptionID uuid.UUID `json:"redemptionId"`
	CouponID     uuid.UUID `json:"couponId"`
	QRPayload    string    `json:"qrPayload"`
	ManualCode   string    `json:"manualCode"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TTLSeconds   int       `json:"ttlSeconds"`
	PeriodStart  time.Time `json:"periodStart"`
	Remaining    int       `json:"remaining"`
	Superseded   int64     `json:"superseded"`
	Persisted    bool      `json:"persisted"`
}

type RemainingResponse struct {
	ID               uuid.UUID `json:"id"`
	Status           string    `json:"status"`
	RemainingSeconds int       `json:"remainingSeconds"`
	RemainingMillis  int64     `json:"remainingMs"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

type UsageResponse struct {
	CouponID     uuid.UUID  `json:"couponId"`
	CanRedeem    bool       `json:"canRedeem"`
	Reason       string     `json:"reason,omitempty"`
	CurrentUsage int        `json:"currentUsage"`
	MaxAllowed   int        `json:"maxAllowed"`
	Remaining    int        `json:"remaining"`
	UsageType    string     `json:"usageType"`
	ResetInfo    string     `json:"resetInfo"`
	NextResetAt  *time.Time `json:"nextResetAt,omitempty"`
}

func FromRedemptionView(v *queries.RedemptionView) *RedemptionResponse {
	var res RedemptionResponse
	_ = copier.Copy(&res, v)
	res.ManualCode = redemption.FormatManualCode(res.ManualCode)
	return &res
}

func FromRedemptionList(items []*queries.RedemptionView) []*RedemptionResponse {
	res := make([]*RedemptionResponse, len(items))
	for i, it := range items {
		res[i] = FromRedemptionView(it)
	}
	return res
}

func FromRecord(r *redemption.Record) *RedemptionResponse {
	return &RedemptionResponse{
		ID:          r.ID(),
		UserID:      r.UserID(),
		CouponID:    r.CouponID(),
		BusinessID:  r.BusinessID(),
		Status:      r.Status().String(),
		QRPayload:   r.QRPayload(),
		ManualCode:  redemption.FormatManualCode(r.ManualCode()),
		PeriodStart: r.PeriodStart(),
		CreatedAt:   r.CreatedAt(),
		ExpiresAt:   r.ExpiresAt(),
		RedeemedAt:  r.RedeemedAt(),
		FinalizedAt: r.FinalizedAt(),
	}
}

func FromStartResult(r *commands.StartResult) *StartRedemptionResponse {
	var res StartRedemptionResponse
	_ = copier.Copy(&res, r)
	res.ManualCode = redemption.FormatManualCode(r.ManualCode)
	res.TTLSeconds = int(redemption.TokenTTL / time.Second)
	res.Remaining = r.Decision.Remaining
	return &res
}

func FromRemainingView(v *queries.RemainingView) *RemainingResponse {
	return &RemainingResponse{
		ID:               v.ID,
		Status:           v.Status,
		RemainingSeconds: int((v.Remaining + time.Second - 1) / time.Second),
		RemainingMillis:  v.Remaining.Milliseconds(),
		ExpiresAt:        v.ExpiresAt,
	}
}

func FromUsageView(v *queries.UsageView) *UsageResponse {
	var res UsageResponse
	_ = copier.Copy(&res, v)
	return &res
}
