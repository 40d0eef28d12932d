package user

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is the read-only view of a user that redemption needs: who they are, which business
// they operate (for merchants) and the state of their subscription.
type Subscriber struct {
	id          uuid.UUID
	role        Role
	businessID  *uuid.UUID
	status      SubscriptionStatus
	periodStart *time.Time
	periodEnd   *time.Time
	anchorDay   AnchorDay
}

type SubscriberParams struct {
	ID          uuid.UUID
	Role        Role
	BusinessID  *uuid.UUID
	Status      SubscriptionStatus
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	AnchorDay   *int
}

func NewSubscriber(p SubscriberParams) (*Subscriber, error) {
	if !p.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	if p.Role == RoleBusiness && p.BusinessID == nil {
		return nil, ErrBusinessRequired
	}

	var anchor AnchorDay
	switch {
	case p.AnchorDay != nil:
		a, err := NewAnchorDay(*p.AnchorDay)
		if err != nil {
			return nil, err
		}
		anchor = a
	case p.PeriodStart != nil:
		anchor = AnchorDayFrom(*p.PeriodStart)
	default:
		anchor = 1
	}

	status := p.Status
	if !status.IsValid() {
		status = SubscriptionInactive
	}

	return &Subscriber{
		id:          p.ID,
		role:        p.Role,
		businessID:  p.BusinessID,
		status:      status,
		periodStart: p.PeriodStart,
		periodEnd:   p.PeriodEnd,
		anchorDay:   anchor,
	}, nil
}

// IsActiveAt is true when the status grants access and the paid period has not ended.
func (s *Subscriber) IsActiveAt(now time.Time) bool {
	if !s.status.Entitled() {
		return false
	}
	if s.periodEnd != nil && !now.Before(*s.periodEnd) {
		return false
	}
	return true
}

// CanConfirmFor reports whether this user may confirm redemptions of the given business.
func (s *Subscriber) CanConfirmFor(businessID uuid.UUID) bool {
	switch s.role {
	case RoleAdmin:
		return true
	case RoleBusiness:
		return s.businessID != nil && *s.businessID == businessID
	default:
		return false
	}
}

func (s *Subscriber) ID() uuid.UUID              { return s.id }
func (s *Subscriber) Role() Role                 { return s.role }
func (s *Subscriber) BusinessID() *uuid.UUID     { return s.businessID }
func (s *Subscriber) Status() SubscriptionStatus { return s.status }
func (s *Subscriber) PeriodStart() *time.Time    { return s.periodStart }
func (s *Subscriber) PeriodEnd() *time.Time      { return s.periodEnd }
func (s *Subscriber) AnchorDay() AnchorDay       { return s.anchorDay }
