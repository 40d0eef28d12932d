package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/infra"
	"saverly/internal/pkg/clock"
	"saverly/internal/pkg/errs"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrForbidden      = errs.New("not allowed to act on this redemption")
	ErrCouponNotFound = errs.New("coupon not found")
)

const (
	JobKindRedemptionConfirmed = "redemption.confirmed"
	JobTopicRedemptions        = "redemptions"
)

const (
	opStart   = "start"
	opConfirm = "confirm"
	opExpire  = "expire"
	opCancel  = "cancel"
)

// StartResult carries the token material. When Persisted is false the record was not stored:
// the token is shown to the user, but a merchant cannot confirm it.
type StartResult struct {
	RedemptionID uuid.UUID
	CouponID     uuid.UUID
	QRPayload    string
	ManualCode   string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	PeriodStart  time.Time
	Decision     redemption.Decision
	Superseded   int64
	Persisted    bool
}

type RedemptionCommands interface {
	Start(ctx context.Context, userID, couponID uuid.UUID) (*StartResult, error)
	Confirm(ctx context.Context, recordID, actorID uuid.UUID) (*redemption.Record, error)
	ConfirmByCode(ctx context.Context, manualCode string, actorID uuid.UUID) (*redemption.Record, error)
	ConfirmByPayload(ctx context.Context, qrPayload string, actorID uuid.UUID) (*redemption.Record, error)
	Expire(ctx context.Context, recordID, userID uuid.UUID) (*redemption.Record, error)
	Cancel(ctx context.Context, recordID, userID uuid.UUID) (*redemption.Record, error)
	ExpireStale(ctx context.Context, limit int) (int, error)
}

type redemptionCommandsImpl struct {
	uow       shared.UnitOfWork
	oracle    shared.SubscriptionOracle
	generator *redemption.Generator
	sealer    redemption.PayloadSealer
	clock     clock.Clock
	metrics   shared.Metrics
}

func NewRedemptionCommands(
	uow shared.UnitOfWork,
	oracle shared.SubscriptionOracle,
	generator *redemption.Generator,
	sealer redemption.PayloadSealer,
	clk clock.Clock,
	metrics shared.Metrics,
) RedemptionCommands {
	return &redemptionCommandsImpl{
		uow:       uow,
		oracle:    oracle,
		generator: generator,
		sealer:    sealer,
		clock:     clk,
		metrics:   metrics,
	}
}

func (uc *redemptionCommandsImpl) Start(ctx context.Context, userID, couponID uuid.UUID) (res *StartResult, err error) {
	now := uc.clock.Now()
	defer func() { uc.observe(opStart, now, err) }()

	sub, err := uc.oracle.Subscriber(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, redemption.ErrUserNotSubscribed
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to load subscription"), redemption.ErrStorage)
	}
	if !sub.IsActiveAt(now) {
		return nil, redemption.ErrUserNotSubscribed
	}

	c, err := uc.uow.CommandReads().CouponByID(ctx, couponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to load coupon"), redemption.ErrStorage)
	}
	if err := c.Availability(now); err != nil {
		return nil, err
	}

	period := redemption.PeriodAt(sub.AnchorDay().Int(), now)

	var (
		tok      redemption.Token
		decision redemption.Decision
		replaced int64
		genErr   error
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		history, err := tx.Reads().RedemptionHistory(ctx, userID, couponID)
		if err != nil {
			return err
		}

		decision = redemption.Evaluate(c.UsageLimit(), history, period, now)
		if !decision.Allowed {
			return &redemption.DeniedError{Decision: decision}
		}

		tok, genErr = uc.generator.Generate(userID, couponID, c.BusinessID(), now)
		if genErr != nil {
			return genErr
		}

		replaced, err = tx.Redemptions().SupersedePending(ctx, userID, couponID, now)
		if err != nil {
			return err
		}

		return tx.Redemptions().Insert(ctx, redemption.NewPending(tok, period.Start))
	})

	var denied *redemption.DeniedError
	switch {
	case err == nil:
	case errors.As(err, &denied):
		return nil, err
	case genErr != nil:
		return nil, errs.Wrap(genErr, "failed to generate redemption token")
	case tok.ID != uuid.Nil:
		slog.Error("redemption token issued but not stored",
			"redemption_id", tok.ID,
			"user_id", userID,
			"coupon_id", couponID,
			"error", err.Error())
		return startResult(tok, period, decision, 0, false), errs.Mark(err, redemption.ErrStorage)
	default:
		return nil, errs.Mark(err, redemption.ErrStorage)
	}

	if replaced > 0 {
		slog.Info("superseded pending redemption", "user_id", userID, "coupon_id", couponID, "count", replaced)
	}
	return startResult(tok, period, decision, replaced, true), nil
}

func startResult(tok redemption.Token, period redemption.BillingPeriod, d redemption.Decision, replaced int64, persisted bool) *StartResult {
	return &StartResult{
		RedemptionID: tok.ID,
		CouponID:     tok.CouponID,
		QRPayload:    tok.QRPayload,
		ManualCode:   tok.ManualCode,
		IssuedAt:     tok.IssuedAt,
		ExpiresAt:    tok.ExpiresAt,
		PeriodStart:  period.Start,
		Decision:     d,
		Superseded:   replaced,
		Persisted:    persisted,
	}
}

func (uc *redemptionCommandsImpl) Confirm(ctx context.Context, recordID, actorID uuid.UUID) (rec *redemption.Record, err error) {
	now := uc.clock.Now()
	defer func() { uc.observe(opConfirm, now, err) }()

	expired := false
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = false

		current, err := tx.Reads().RedemptionByID(ctx, recordID)
		if err != nil {
			return notFoundAs(err, redemption.ErrNotFound)
		}

		actor, err := tx.Reads().SubscriberByID(ctx, actorID)
		if err != nil {
			return notFoundAs(err, ErrForbidden)
		}
		if !actor.CanConfirmFor(current.BusinessID()) {
			return ErrForbidden
		}

		if current.Status().IsTerminal() {
			return redemption.ErrAlreadyFinalized
		}

		if current.IsExpiredAt(now) {
			if err := current.Expire(now); err != nil {
				return err
			}
			if _, err := tx.Redemptions().Transition(ctx, current); err != nil {
				return conflictAs(err)
			}
			expired = true
			return nil
		}

		c, err := tx.Coupons().Lock(ctx, current.CouponID())
		if err != nil {
			return err
		}

		history, err := tx.Reads().RedemptionHistory(ctx, current.UserID(), current.CouponID())
		if err != nil {
			return err
		}
		others := make([]*redemption.Record, 0, len(history))
		for _, h := range history {
			if h.ID() != current.ID() {
				others = append(others, h)
			}
		}

		d := redemption.Evaluate(c.UsageLimit(), others, redemption.BillingPeriod{Start: current.PeriodStart()}, now)
		if !d.Allowed {
			return &redemption.DeniedError{Decision: d}
		}

		if err := current.Redeem(now); err != nil {
			return err
		}
		stored, err := tx.Redemptions().Transition(ctx, current)
		if err != nil {
			return conflictAs(err)
		}

		if err := tx.Coupons().IncrementUsage(ctx, stored.CouponID()); err != nil {
			return err
		}

		payload, err := json.Marshal(confirmedEvent{
			RedemptionID: stored.ID(),
			UserID:       stored.UserID(),
			CouponID:     stored.CouponID(),
			BusinessID:   stored.BusinessID(),
			ConfirmedBy:  actorID,
			RedeemedAt:   now,
		})
		if err != nil {
			return err
		}
		if err := tx.Notifications().CreateJob(ctx, JobKindRedemptionConfirmed, JobTopicRedemptions, payload, now); err != nil {
			return err
		}

		rec = stored
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if expired {
		return nil, redemption.ErrTokenExpired
	}
	return rec, nil
}

// ConfirmByCode accepts the code with or without the display dash.
func (uc *redemptionCommandsImpl) ConfirmByCode(ctx context.Context, manualCode string, actorID uuid.UUID) (*redemption.Record, error) {
	code, err := redemption.NormalizeManualCode(manualCode)
	if err != nil {
		return nil, err
	}

	rec, err := uc.uow.CommandReads().PendingRedemptionByCode(ctx, code)
	if err != nil {
		return nil, classify(notFoundAs(err, redemption.ErrNotFound))
	}
	return uc.Confirm(ctx, rec.ID(), actorID)
}

// ConfirmByPayload trusts the payload only for the record id; everything else is re-read
// from storage.
func (uc *redemptionCommandsImpl) ConfirmByPayload(ctx context.Context, qrPayload string, actorID uuid.UUID) (*redemption.Record, error) {
	claims, err := uc.sealer.Open(qrPayload)
	if err != nil {
		return nil, errs.Mark(err, redemption.ErrInvalidPayload)
	}
	return uc.Confirm(ctx, claims.RedemptionID, actorID)
}

func (uc *redemptionCommandsImpl) Expire(ctx context.Context, recordID, userID uuid.UUID) (rec *redemption.Record, err error) {
	now := uc.clock.Now()
	defer func() { uc.observe(opExpire, now, err) }()
	return uc.close(ctx, recordID, userID, func(r *redemption.Record) error { return r.Expire(now) })
}

func (uc *redemptionCommandsImpl) Cancel(ctx context.Context, recordID, userID uuid.UUID) (rec *redemption.Record, err error) {
	now := uc.clock.Now()
	defer func() { uc.observe(opCancel, now, err) }()
	return uc.close(ctx, recordID, userID, func(r *redemption.Record) error { return r.Cancel(now) })
}

// close applies a terminal transition for the record's owner. A record that is already
// terminal, or that loses the race to another transition, comes back as stored together
// with ErrAlreadyFinalized.
func (uc *redemptionCommandsImpl) close(ctx context.Context, recordID, userID uuid.UUID, transition func(*redemption.Record) error) (*redemption.Record, error) {
	var rec *redemption.Record
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Reads().RedemptionByID(ctx, recordID)
		if err != nil {
			return notFoundAs(err, redemption.ErrNotFound)
		}
		if current.UserID() != userID {
			return ErrForbidden
		}

		rec = current
		if err := transition(current); err != nil {
			return err
		}

		stored, err := tx.Redemptions().Transition(ctx, current)
		if err != nil {
			return conflictAs(err)
		}
		rec = stored
		return nil
	})
	if errors.Is(err, redemption.ErrAlreadyFinalized) {
		latest, rerr := uc.uow.CommandReads().RedemptionByID(ctx, recordID)
		if rerr == nil {
			rec = latest
		}
		return rec, redemption.ErrAlreadyFinalized
	}
	if err != nil {
		return nil, classify(err)
	}
	return rec, nil
}

func (uc *redemptionCommandsImpl) ExpireStale(ctx context.Context, limit int) (int, error) {
	now := uc.clock.Now()
	var ids []uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		ids, err = tx.Redemptions().ExpireStale(ctx, now, limit)
		return err
	})
	if err != nil {
		return 0, errs.Mark(err, redemption.ErrStorage)
	}
	uc.metrics.Swept(len(ids))
	return len(ids), nil
}

func (uc *redemptionCommandsImpl) observe(op string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(redemption.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	uc.metrics.Observe(op, outcome, uc.clock.Now().Sub(started))
}

type confirmedEvent struct {
	RedemptionID uuid.UUID `json:"redemption_id"`
	UserID       uuid.UUID `json:"user_id"`
	CouponID     uuid.UUID `json:"coupon_id"`
	BusinessID   uuid.UUID `json:"business_id"`
	ConfirmedBy  uuid.UUID `json:"confirmed_by"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

func notFoundAs(err, target error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return target
	}
	return err
}

// A conditional write that matched nothing lost the race to another transition.
func conflictAs(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return redemption.ErrAlreadyFinalized
	}
	return err
}

// classify leaves domain outcomes untouched and marks everything else as a storage failure.
func classify(err error) error {
	var denied *redemption.DeniedError
	switch {
	case errors.As(err, &denied),
		redemption.KindOf(err) != "",
		errors.Is(err, ErrForbidden),
		errors.Is(err, redemption.ErrInvalidManualCode),
		errors.Is(err, redemption.ErrInvalidPayload),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errs.Mark(err, redemption.ErrStorage)
	}
}
