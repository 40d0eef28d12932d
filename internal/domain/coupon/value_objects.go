package coupon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDiscountKind    = errors.New("invalid discount kind")
	ErrInvalidDiscountAmount  = errors.New("fixed discount must be positive")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 1 and 100")
	ErrEmptyDiscountText      = errors.New("free-text discount cannot be empty")
	ErrEmptyTitle             = errors.New("coupon title cannot be empty")
)

type DiscountKind string

const (
	DiscountPercentage  DiscountKind = "percentage"
	DiscountFixedAmount DiscountKind = "fixed_amount"
	DiscountFreeText    DiscountKind = "free_text"
)

func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountPercentage, DiscountFixedAmount, DiscountFreeText:
		return true
	default:
		return false
	}
}

// Discount describes what the customer gets. Exactly one of the value fields is meaningful,
// selected by kind.
type Discount struct {
	kind        DiscountKind
	percent     int
	amountCents int64
	text        string
}

func NewPercentageDiscount(percent int) (Discount, error) {
	if percent < 1 || percent > 100 {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{kind: DiscountPercentage, percent: percent}, nil
}

func NewFixedDiscount(amountCents int64) (Discount, error) {
	if amountCents <= 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountFixedAmount, amountCents: amountCents}, nil
}

func NewFreeTextDiscount(text string) (Discount, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Discount{}, ErrEmptyDiscountText
	}
	return Discount{kind: DiscountFreeText, text: text}, nil
}

// NewDiscount rebuilds a discount from its stored columns.
func NewDiscount(kind string, value int64, text string) (Discount, error) {
	switch DiscountKind(kind) {
	case DiscountPercentage:
		return NewPercentageDiscount(int(value))
	case DiscountFixedAmount:
		return NewFixedDiscount(value)
	case DiscountFreeText:
		return NewFreeTextDiscount(text)
	default:
		return Discount{}, fmt.Errorf("%w: %q", ErrInvalidDiscountKind, kind)
	}
}

func (d Discount) Kind() DiscountKind { return d.kind }
func (d Discount) Text() string       { return d.text }

// Value is the numeric column for storage; zero for free text.
func (d Discount) Value() int64 {
	switch d.kind {
	case DiscountPercentage:
		return int64(d.percent)
	case DiscountFixedAmount:
		return d.amountCents
	default:
		return 0
	}
}

func (d Discount) String() string {
	switch d.kind {
	case DiscountPercentage:
		return fmt.Sprintf("%d%% off", d.percent)
	case DiscountFixedAmount:
		return fmt.Sprintf("$%d.%02d off", d.amountCents/100, d.amountCents%100)
	default:
		return d.text
	}
}
