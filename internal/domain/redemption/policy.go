package redemption

import (
	"time"

	"saverly/internal/domain/coupon"
)

// Unlimited is the Remaining value of a decision that never runs out.
const Unlimited = -1

// Decision is the outcome of evaluating a usage limit against a user's history.
type Decision struct {
	Allowed   bool
	Used      int
	Max       int // 0 for unlimited
	Remaining int // Unlimited (-1) for unlimited
	Reason    error
	ResetsAt  time.Time // zero when the limit never resets
}

// Evaluate applies limit to history. Only redeemed records count. Daily limits use the UTC
// calendar day of now; monthly limits count records stamped with period.Start.
func Evaluate(limit coupon.UsageLimit, history []*Record, period BillingPeriod, now time.Time) Decision {
	redeemed := make([]*Record, 0, len(history))
	for _, r := range history {
		if r.Status() == StatusRedeemed {
			redeemed = append(redeemed, r)
		}
	}

	switch limit.Kind() {
	case coupon.LimitOneTime:
		return bounded(len(redeemed), 1, ErrAlreadyRedeemed, time.Time{})

	case coupon.LimitDaily:
		today := utcDay(now)
		used := 0
		for _, r := range redeemed {
			if at := r.RedeemedAt(); at != nil && utcDay(*at).Equal(today) {
				used++
			}
		}
		return bounded(used, 1, ErrDailyLimitReached, today.AddDate(0, 0, 1))

	case coupon.LimitMonthly:
		used := 0
		for _, r := range redeemed {
			if r.PeriodStart().Equal(period.Start) {
				used++
			}
		}
		return bounded(used, limit.MonthlyCap(), ErrMonthlyLimitReached, period.End)

	default:
		return Decision{Allowed: true, Used: len(redeemed), Remaining: Unlimited}
	}
}

func bounded(used, maxAllowed int, reason error, resetsAt time.Time) Decision {
	d := Decision{
		Used:      used,
		Max:       maxAllowed,
		Remaining: max(0, maxAllowed-used),
		ResetsAt:  resetsAt,
	}
	d.Allowed = d.Remaining > 0
	if !d.Allowed {
		d.Reason = reason
	}
	return d
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
