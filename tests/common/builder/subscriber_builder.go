//go:build unit || e2e

package builder

import (
	"time"

	"saverly/internal/domain/user"

	"github.com/google/uuid"
)

type SubscriberBuilder struct {
	ID          uuid.UUID
	Role        user.Role
	BusinessID  *uuid.UUID
	Status      user.SubscriptionStatus
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	AnchorDay   *int
}

func NewSubscriberBuilder() *SubscriberBuilder {
	start := BaseTime.AddDate(0, 0, -10)
	end := start.AddDate(0, 1, 0)
	anchor := start.Day()
	return &SubscriberBuilder{
		ID:          uuid.New(),
		Role:        user.RoleConsumer,
		Status:      user.SubscriptionActive,
		PeriodStart: &start,
		PeriodEnd:   &end,
		AnchorDay:   &anchor,
	}
}

func (b *SubscriberBuilder) With(mutate func(*SubscriberBuilder)) *SubscriberBuilder {
	mutate(b)
	return b
}

func (b *SubscriberBuilder) WithAnchorDay(day int) *SubscriberBuilder {
	b.AnchorDay = &day
	return b
}

func (b *SubscriberBuilder) AsBusiness(businessID uuid.UUID) *SubscriberBuilder {
	b.Role = user.RoleBusiness
	b.BusinessID = &businessID
	return b
}

func (b *SubscriberBuilder) AsAdmin() *SubscriberBuilder {
	b.Role = user.RoleAdmin
	return b
}

func (b *SubscriberBuilder) BuildDomain() (*user.Subscriber, error) {
	return user.NewSubscriber(user.SubscriberParams{
		ID:          b.ID,
		Role:        b.Role,
		BusinessID:  b.BusinessID,
		Status:      b.Status,
		PeriodStart: b.PeriodStart,
		PeriodEnd:   b.PeriodEnd,
		AnchorDay:   b.AnchorDay,
	})
}

// MustBuild panics on invalid input; for fixtures that are known to be valid.
func (b *SubscriberBuilder) MustBuild() *user.Subscriber {
	s, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return s
}
