package user

import (
	"errors"
	"time"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidAnchorDay = errors.New("billing anchor day must be between 1 and 31")
	ErrBusinessRequired = errors.New("business role requires a business id")
)

// AnchorDay is the day of month a subscription renews on.
type AnchorDay int

func NewAnchorDay(d int) (AnchorDay, error) {
	if d < 1 || d > 31 {
		return 0, ErrInvalidAnchorDay
	}
	return AnchorDay(d), nil
}

// AnchorDayFrom takes the UTC day of t, or 1 for a zero time.
func AnchorDayFrom(t time.Time) AnchorDay {
	if t.IsZero() {
		return 1
	}
	return AnchorDay(t.UTC().Day())
}

func (a AnchorDay) Int() int { return int(a) }
