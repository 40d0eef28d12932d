package billing

import (
	"encoding/json"
	"time"

	"saverly/internal/pkg/errs"
	"saverly/internal/pkg/ptr"
	"saverly/internal/usecase/commands"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

// WebhookDecoder verifies Stripe webhook signatures and flattens the subscription and invoice
// objects we care about into a BillingEvent.
type WebhookDecoder struct {
	secret string
}

func NewWebhookDecoder(secret string) *WebhookDecoder {
	return &WebhookDecoder{secret: secret}
}

func (d *WebhookDecoder) Decode(payload []byte, signature string) (commands.BillingEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, d.secret)
	if err != nil {
		return commands.BillingEvent{}, errs.Mark(errs.Wrap(err, "verify webhook signature"), commands.ErrInvalidBillingEvent)
	}
	if event.Data == nil {
		return commands.BillingEvent{}, errs.Wrap(commands.ErrInvalidBillingEvent, "event has no data")
	}

	out := commands.BillingEvent{
		ID:      event.ID,
		Type:    event.Type,
		Payload: payload,
	}

	switch event.Type {
	case commands.EventSubscriptionCreated, commands.EventSubscriptionUpdated, commands.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return commands.BillingEvent{}, errs.Mark(errs.Wrap(err, "decode subscription"), commands.ErrInvalidBillingEvent)
		}
		fillFromSubscription(&out, &sub)
	case commands.EventPaymentSucceeded, commands.EventPaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return commands.BillingEvent{}, errs.Mark(errs.Wrap(err, "decode invoice"), commands.ErrInvalidBillingEvent)
		}
		fillFromInvoice(&out, &inv)
	default:
		var obj struct {
			Customer string `json:"customer"`
		}
		_ = json.Unmarshal(event.Data.Raw, &obj)
		out.CustomerID = obj.Customer
	}

	if out.CustomerID == "" {
		return commands.BillingEvent{}, errs.Wrapf(commands.ErrInvalidBillingEvent, "event %s has no customer", event.ID)
	}
	return out, nil
}

func fillFromSubscription(out *commands.BillingEvent, sub *stripe.Subscription) {
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	out.SubscriptionID = sub.ID
	out.Status = string(sub.Status)
	out.PeriodStart = unixTime(sub.CurrentPeriodStart)
	out.PeriodEnd = unixTime(sub.CurrentPeriodEnd)

	anchor := sub.BillingCycleAnchor
	if anchor == 0 {
		anchor = sub.CurrentPeriodStart
	}
	if t := unixTime(anchor); t != nil {
		out.AnchorDay = ptr.To(t.Day())
	}
}

func fillFromInvoice(out *commands.BillingEvent, inv *stripe.Invoice) {
	if inv.Customer != nil {
		out.CustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil {
		out.SubscriptionID = inv.Subscription.ID
	}

	// The invoice's own period is the previous cycle; the subscription line carries the paid one.
	start, end := inv.PeriodStart, inv.PeriodEnd
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			if line != nil && line.Period != nil && line.Period.End > end {
				start, end = line.Period.Start, line.Period.End
			}
		}
	}
	out.PeriodStart = unixTime(start)
	out.PeriodEnd = unixTime(end)
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	return ptr.To(time.Unix(sec, 0).UTC())
}
