package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponExpired      = errors.New("coupon is outside its validity window")
	ErrInvalidValidWindow = errors.New("coupon start must not be after end")
)

type Coupon struct {
	id          uuid.UUID
	businessID  uuid.UUID
	title       string
	description string
	discount    Discount
	active      bool
	startsAt    time.Time
	endsAt      time.Time
	usageLimit  UsageLimit
	usageCount  int64
	createdAt   time.Time
	updatedAt   time.Time
}

type NewCouponParams struct {
	BusinessID  uuid.UUID
	Title       string
	Description string
	Discount    Discount
	StartsAt    time.Time
	EndsAt      time.Time
	UsageLimit  UsageLimit
}

func NewCoupon(p NewCouponParams, now time.Time) (*Coupon, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if p.StartsAt.After(p.EndsAt) {
		return nil, ErrInvalidValidWindow
	}
	if p.UsageLimit.IsZero() {
		return nil, ErrInvalidUsageLimit
	}
	return &Coupon{
		id:          uuid.New(),
		businessID:  p.BusinessID,
		title:       title,
		description: p.Description,
		discount:    p.Discount,
		active:      true,
		startsAt:    p.StartsAt,
		endsAt:      p.EndsAt,
		usageLimit:  p.UsageLimit,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct restores a coupon loaded from storage without re-running creation rules.
func Reconstruct(
	id, businessID uuid.UUID,
	title, description string,
	discount Discount,
	active bool,
	startsAt, endsAt time.Time,
	usageLimit UsageLimit,
	usageCount int64,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:          id,
		businessID:  businessID,
		title:       title,
		description: description,
		discount:    discount,
		active:      active,
		startsAt:    startsAt,
		endsAt:      endsAt,
		usageLimit:  usageLimit,
		usageCount:  usageCount,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Availability reports why the coupon cannot be redeemed at now, or nil if it is live.
// The active flag is checked before the window.
func (c *Coupon) Availability(now time.Time) error {
	if !c.active {
		return ErrCouponInactive
	}
	if now.Before(c.startsAt) || now.After(c.endsAt) {
		return ErrCouponExpired
	}
	return nil
}

func (c *Coupon) IsLive(now time.Time) bool { return c.Availability(now) == nil }

func (c *Coupon) Deactivate(now time.Time) {
	c.active = false
	c.updatedAt = now
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) BusinessID() uuid.UUID  { return c.businessID }
func (c *Coupon) Title() string          { return c.title }
func (c *Coupon) Description() string    { return c.description }
func (c *Coupon) Discount() Discount     { return c.discount }
func (c *Coupon) Active() bool           { return c.active }
func (c *Coupon) StartsAt() time.Time    { return c.startsAt }
func (c *Coupon) EndsAt() time.Time      { return c.endsAt }
func (c *Coupon) UsageLimit() UsageLimit { return c.usageLimit }
func (c *Coupon) UsageCount() int64      { return c.usageCount }
func (c *Coupon) CreatedAt() time.Time   { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time   { return c.updatedAt }
