package redemption

import (
	"errors"
	"fmt"
	"time"

	"saverly/internal/domain/coupon"
	"saverly/internal/pkg/errs"
)

// Kind is the stable, client-visible name of a redemption failure.
type Kind string

const (
	KindUserNotSubscribed   Kind = "USER_NOT_SUBSCRIBED"
	KindCouponInactive      Kind = "COUPON_INACTIVE"
	KindCouponExpired       Kind = "COUPON_EXPIRED"
	KindAlreadyRedeemed     Kind = "ALREADY_REDEEMED"
	KindDailyLimitReached   Kind = "DAILY_LIMIT_REACHED"
	KindMonthlyLimitReached Kind = "MONTHLY_LIMIT_REACHED"
	KindTokenExpired        Kind = "TOKEN_EXPIRED"
	KindAlreadyFinalized    Kind = "ALREADY_FINALIZED"
	KindNotFound            Kind = "NOT_FOUND"
	KindStorage             Kind = "STORAGE_ERROR"
)

var (
	ErrUserNotSubscribed   = errs.New("user does not have an active subscription")
	ErrCouponInactive      = coupon.ErrCouponInactive
	ErrCouponExpired       = coupon.ErrCouponExpired
	ErrAlreadyRedeemed     = errs.New("coupon has already been redeemed")
	ErrDailyLimitReached   = errs.New("daily redemption limit reached")
	ErrMonthlyLimitReached = errs.New("monthly redemption limit reached")
	ErrTokenExpired        = errs.New("redemption token has expired")
	ErrAlreadyFinalized    = errs.New("redemption is already finalized")
	ErrNotFound            = errs.New("redemption not found")
	ErrStorage             = errs.New("redemption storage failure")
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUserNotSubscribed, KindUserNotSubscribed},
	{ErrCouponInactive, KindCouponInactive},
	{ErrCouponExpired, KindCouponExpired},
	{ErrAlreadyRedeemed, KindAlreadyRedeemed},
	{ErrDailyLimitReached, KindDailyLimitReached},
	{ErrMonthlyLimitReached, KindMonthlyLimitReached},
	{ErrTokenExpired, KindTokenExpired},
	{ErrAlreadyFinalized, KindAlreadyFinalized},
	{ErrNotFound, KindNotFound},
	{ErrStorage, KindStorage},
}

// KindOf returns the kind carried by err, or "" when err is not a redemption failure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// Message is the user-facing text for a kind.
func (k Kind) Message() string {
	switch k {
	case KindUserNotSubscribed:
		return "An active subscription is required to redeem coupons."
	case KindCouponInactive:
		return "This coupon is currently inactive."
	case KindCouponExpired:
		return "This coupon is not valid at this time."
	case KindAlreadyRedeemed:
		return "You have already redeemed this coupon. One-time coupons can only be used once."
	case KindDailyLimitReached:
		return "You have already redeemed this coupon today. Try again tomorrow."
	case KindMonthlyLimitReached:
		return "You have reached this coupon's limit for the current billing month."
	case KindTokenExpired:
		return "This redemption code has expired. Start a new redemption."
	case KindAlreadyFinalized:
		return "This redemption has already been completed or closed."
	case KindNotFound:
		return "Redemption not found."
	case KindStorage:
		return "Something went wrong. Please try again later."
	default:
		return "Unexpected error."
	}
}

// DeniedError is returned when the usage policy blocks a redemption. It matches the reason
// sentinel through Unwrap and carries the decision so callers can tell the user when to retry.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	if e.Decision.ResetsAt.IsZero() {
		return e.Decision.Reason.Error()
	}
	return fmt.Sprintf("%s (resets at %s)", e.Decision.Reason.Error(), e.Decision.ResetsAt.Format(time.RFC3339))
}

func (e *DeniedError) Unwrap() error { return e.Decision.Reason }
