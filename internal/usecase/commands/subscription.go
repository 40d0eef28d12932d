package commands

import (
	"context"
	"log/slog"
	"time"

	"saverly/internal/domain/user"
	"saverly/internal/pkg/clock"
	"saverly/internal/pkg/errs"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound    = errs.New("no user for billing customer")
	ErrInvalidBillingEvent = errs.New("invalid billing event")
)

const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentSucceeded    = "invoice.payment_succeeded"
	EventPaymentFailed       = "invoice.payment_failed"
)

const (
	eventStatusApplied   = "applied"
	eventStatusIgnored   = "ignored"
	eventStatusDuplicate = "duplicate"
)

// BillingEvent is a provider event already verified and decoded at the transport boundary.
type BillingEvent struct {
	ID             string
	Type           string
	CustomerID     string
	SubscriptionID string
	Status         string
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	AnchorDay      *int
	Payload        []byte
}

type ApplyResult struct {
	UserID  uuid.UUID
	Status  string
	Applied bool
}

type SubscriptionCommands interface {
	ApplyBillingEvent(ctx context.Context, ev BillingEvent) (*ApplyResult, error)
}

type subscriptionCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSubscriptionCommands(uow shared.UnitOfWork, clk clock.Clock) SubscriptionCommands {
	return &subscriptionCommandsImpl{uow: uow, clock: clk}
}

// ApplyBillingEvent is idempotent by provider event id: a replayed event changes nothing.
func (uc *subscriptionCommandsImpl) ApplyBillingEvent(ctx context.Context, ev BillingEvent) (*ApplyResult, error) {
	now := uc.clock.Now()
	result := &ApplyResult{}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		*result = ApplyResult{}

		sub, err := tx.Reads().SubscriberByStripeCustomer(ctx, ev.CustomerID)
		if err != nil {
			return notFoundAs(err, ErrCustomerNotFound)
		}
		userID := sub.ID()
		result.UserID = userID

		upd, ok := subscriptionUpdateFor(ev, sub)
		status := eventStatusApplied
		if !ok {
			status = eventStatusIgnored
		}

		fresh, err := tx.Subscriptions().RecordEvent(ctx, shared.SubscriptionEvent{
			ID:            uuid.New(),
			StripeEventID: ev.ID,
			EventType:     ev.Type,
			Status:        status,
			UserID:        &userID,
			Payload:       ev.Payload,
			ReceivedAt:    now,
		})
		if err != nil {
			return err
		}
		if !fresh {
			result.Status = eventStatusDuplicate
			return nil
		}
		result.Status = status
		if !ok {
			return nil
		}

		if err := tx.Subscriptions().Update(ctx, userID, upd); err != nil {
			return err
		}
		result.Applied = true
		return nil
	})
	if err != nil {
		if errs.Is(err, ErrCustomerNotFound) {
			return nil, err
		}
		return nil, errs.Wrap(err, "failed to apply billing event")
	}

	slog.Info("billing event processed",
		"event_id", ev.ID,
		"type", ev.Type,
		"user_id", result.UserID,
		"status", result.Status)
	return result, nil
}

// subscriptionUpdateFor maps an event onto the user's subscription. Fields the event does not
// carry keep their current value.
func subscriptionUpdateFor(ev BillingEvent, cur *user.Subscriber) (shared.SubscriptionUpdate, bool) {
	upd := shared.SubscriptionUpdate{
		Status:      cur.Status(),
		PeriodStart: cur.PeriodStart(),
		PeriodEnd:   cur.PeriodEnd(),
	}
	if ev.PeriodStart != nil {
		upd.PeriodStart = ev.PeriodStart
	}
	if ev.PeriodEnd != nil {
		upd.PeriodEnd = ev.PeriodEnd
	}
	if ev.SubscriptionID != "" {
		id := ev.SubscriptionID
		upd.StripeSubscriptionID = &id
	}

	switch ev.Type {
	case EventSubscriptionCreated:
		upd.Status = user.NewSubscriptionStatus(ev.Status)
		upd.AnchorDay = ev.AnchorDay
	case EventSubscriptionUpdated:
		upd.Status = user.NewSubscriptionStatus(ev.Status)
		if cur.PeriodStart() == nil {
			upd.AnchorDay = ev.AnchorDay
		}
	case EventSubscriptionDeleted:
		upd.Status = user.SubscriptionCanceled
	case EventPaymentSucceeded:
		upd.Status = user.SubscriptionActive
	case EventPaymentFailed:
		upd.Status = user.SubscriptionPastDue
	default:
		return shared.SubscriptionUpdate{}, false
	}
	return upd, true
}
