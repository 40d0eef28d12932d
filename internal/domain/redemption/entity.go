package redemption

import (
	"time"

	"github.com/google/uuid"
)

// Record is one redemption attempt of a coupon by a user. It starts pending and moves exactly once
// to a terminal status.
type Record struct {
	id          uuid.UUID
	userID      uuid.UUID
	couponID    uuid.UUID
	businessID  uuid.UUID
	status      Status
	qrPayload   string
	manualCode  string
	periodStart time.Time
	createdAt   time.Time
	expiresAt   time.Time
	redeemedAt  *time.Time
	finalizedAt *time.Time
}

// NewPending builds the pending record for a freshly generated token.
func NewPending(tok Token, periodStart time.Time) *Record {
	return &Record{
		id:          tok.ID,
		userID:      tok.UserID,
		couponID:    tok.CouponID,
		businessID:  tok.BusinessID,
		status:      StatusPending,
		qrPayload:   tok.QRPayload,
		manualCode:  tok.ManualCode,
		periodStart: periodStart.UTC(),
		createdAt:   tok.IssuedAt,
		expiresAt:   tok.ExpiresAt,
	}
}

type ReconstructParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CouponID    uuid.UUID
	BusinessID  uuid.UUID
	Status      Status
	QRPayload   string
	ManualCode  string
	PeriodStart time.Time
	CreatedAt   time.Time
	ExpiresAt   time.Time
	RedeemedAt  *time.Time
	FinalizedAt *time.Time
}

func Reconstruct(p ReconstructParams) *Record {
	return &Record{
		id:          p.ID,
		userID:      p.UserID,
		couponID:    p.CouponID,
		businessID:  p.BusinessID,
		status:      p.Status,
		qrPayload:   p.QRPayload,
		manualCode:  p.ManualCode,
		periodStart: p.PeriodStart,
		createdAt:   p.CreatedAt,
		expiresAt:   p.ExpiresAt,
		redeemedAt:  p.RedeemedAt,
		finalizedAt: p.FinalizedAt,
	}
}

// IsExpiredAt reports whether a pending record has outlived its window. The window is closed:
// a confirmation at exactly expiresAt is still in time.
func (r *Record) IsExpiredAt(now time.Time) bool {
	return r.status == StatusPending && now.After(r.expiresAt)
}

// Remaining is the time left before expiry, never negative.
func (r *Record) Remaining(now time.Time) time.Duration {
	return max(0, r.expiresAt.Sub(now))
}

// Redeem moves a pending, unexpired record to redeemed.
func (r *Record) Redeem(now time.Time) error {
	if r.status.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if r.IsExpiredAt(now) {
		return ErrTokenExpired
	}
	r.status = StatusRedeemed
	r.redeemedAt = &now
	r.finalizedAt = &now
	return nil
}

// Expire and Cancel close a pending record. On a terminal record they change nothing and
// report ErrAlreadyFinalized.
func (r *Record) Expire(now time.Time) error {
	return r.close(StatusExpired, now)
}

func (r *Record) Cancel(now time.Time) error {
	return r.close(StatusCancelled, now)
}

func (r *Record) close(to Status, now time.Time) error {
	if r.status.IsTerminal() {
		return ErrAlreadyFinalized
	}
	r.status = to
	r.finalizedAt = &now
	return nil
}

func (r *Record) ID() uuid.UUID           { return r.id }
func (r *Record) UserID() uuid.UUID       { return r.userID }
func (r *Record) CouponID() uuid.UUID     { return r.couponID }
func (r *Record) BusinessID() uuid.UUID   { return r.businessID }
func (r *Record) Status() Status          { return r.status }
func (r *Record) QRPayload() string       { return r.qrPayload }
func (r *Record) ManualCode() string      { return r.manualCode }
func (r *Record) PeriodStart() time.Time  { return r.periodStart }
func (r *Record) CreatedAt() time.Time    { return r.createdAt }
func (r *Record) ExpiresAt() time.Time    { return r.expiresAt }
func (r *Record) RedeemedAt() *time.Time  { return r.redeemedAt }
func (r *Record) FinalizedAt() *time.Time { return r.finalizedAt }
