//go:build unit || e2e

package builder

import (
	"time"

	"saverly/internal/domain/coupon"

	"github.com/google/uuid"
)

// BaseTime is the fixed "now" most tests are written against.
var BaseTime = time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)

type CouponBuilder struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	Title        string
	Description  string
	DiscountKind string
	DiscountVal  int64
	DiscountText string
	Active       bool
	StartsAt     time.Time
	EndsAt       time.Time
	Category     string
	MonthlyCap   *int
	UsageCount   int64
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:           uuid.New(),
		BusinessID:   uuid.New(),
		Title:        "20% off any coffee",
		Description:  "Valid on all hot drinks",
		DiscountKind: string(coupon.DiscountPercentage),
		DiscountVal:  20,
		Active:       true,
		StartsAt:     BaseTime.AddDate(0, -1, 0),
		EndsAt:       BaseTime.AddDate(0, 2, 0),
		Category:     "one_time",
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithCategory(category string) *CouponBuilder {
	b.Category = category
	return b
}

func (b *CouponBuilder) WithWindow(start, end time.Time) *CouponBuilder {
	b.StartsAt = start
	b.EndsAt = end
	return b
}

func (b *CouponBuilder) Inactive() *CouponBuilder {
	b.Active = false
	return b
}

// BuildDomain runs the creation rules, so invalid input surfaces as an error.
func (b *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	limit, err := coupon.ParseUsageLimit(b.Category, b.MonthlyCap)
	if err != nil {
		return nil, err
	}
	discount, err := coupon.NewDiscount(b.DiscountKind, b.DiscountVal, b.DiscountText)
	if err != nil {
		return nil, err
	}
	c, err := coupon.NewCoupon(coupon.NewCouponParams{
		BusinessID:  b.BusinessID,
		Title:       b.Title,
		Description: b.Description,
		Discount:    discount,
		StartsAt:    b.StartsAt,
		EndsAt:      b.EndsAt,
		UsageLimit:  limit,
	}, BaseTime)
	if err != nil {
		return nil, err
	}
	if !b.Active {
		c.Deactivate(BaseTime)
	}
	return c, nil
}

// BuildStored returns the coupon as a repository would load it, keeping the builder's ID.
// It panics on an invalid category or discount.
func (b *CouponBuilder) BuildStored() *coupon.Coupon {
	limit, err := coupon.ParseUsageLimit(b.Category, b.MonthlyCap)
	if err != nil {
		panic(err)
	}
	discount, err := coupon.NewDiscount(b.DiscountKind, b.DiscountVal, b.DiscountText)
	if err != nil {
		panic(err)
	}
	return coupon.Reconstruct(
		b.ID, b.BusinessID,
		b.Title, b.Description,
		discount,
		b.Active,
		b.StartsAt, b.EndsAt,
		limit,
		b.UsageCount,
		BaseTime, BaseTime,
	)
}
