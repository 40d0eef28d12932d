package queries

import (
	"context"
	"time"

	"saverly/internal/domain/coupon"
	"saverly/internal/domain/redemption"
	"saverly/internal/domain/user"
	"saverly/internal/infra"
	"saverly/internal/pkg/clock"
	"saverly/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrRedemptionNotFound = redemption.ErrNotFound
	ErrRedemptionAccess   = errs.New("redemption access denied")
	ErrCouponNotFound     = errs.New("coupon not found")
	ErrUserNotFound       = errs.New("user not found")
)

type RedemptionReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RedemptionView, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*RedemptionView, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*RedemptionView, error)
}

// PolicyReads is the slice of the command-side reads that usage evaluation needs.
type PolicyReads interface {
	CouponByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	SubscriberByID(ctx context.Context, id uuid.UUID) (*user.Subscriber, error)
	RedemptionHistory(ctx context.Context, userID, couponID uuid.UUID) ([]*redemption.Record, error)
}

type RedemptionQueries interface {
	Remaining(ctx context.Context, id uuid.UUID, now time.Time) (*RemainingView, error)
	GetByID(ctx context.Context, actorID, id uuid.UUID) (*RedemptionView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*RedemptionView, *Cursor, error)
	Usage(ctx context.Context, userID, couponID uuid.UUID) (*UsageView, error)
}

type redemptionQueriesImpl struct {
	store RedemptionReadStore
	reads PolicyReads
	clock clock.Clock
}

func NewRedemptionQueries(store RedemptionReadStore, reads PolicyReads, clk clock.Clock) RedemptionQueries {
	return &redemptionQueriesImpl{store: store, reads: reads, clock: clk}
}

// Remaining reports a stale pending record as expired without writing; the transition itself
// happens on the next command that touches it.
func (q *redemptionQueriesImpl) Remaining(ctx context.Context, id uuid.UUID, now time.Time) (*RemainingView, error) {
	rv, err := q.find(ctx, id)
	if err != nil {
		return nil, err
	}

	status := rv.Status
	left := max(0, rv.ExpiresAt.Sub(now))
	if status != redemption.StatusPending.String() {
		left = 0
	} else if now.After(rv.ExpiresAt) {
		status = redemption.StatusExpired.String()
	}

	return &RemainingView{
		ID:        rv.ID,
		Status:    status,
		Remaining: left,
		ExpiresAt: rv.ExpiresAt,
	}, nil
}

func (q *redemptionQueriesImpl) GetByID(ctx context.Context, actorID, id uuid.UUID) (*RedemptionView, error) {
	rv, err := q.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID == actorID {
		return rv, nil
	}

	actor, err := q.reads.SubscriberByID(ctx, actorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRedemptionAccess
		}
		return nil, err
	}
	if !actor.CanConfirmFor(rv.BusinessID) {
		return nil, ErrRedemptionAccess
	}
	return rv, nil
}

func (q *redemptionQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*RedemptionView, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*RedemptionView
	var err error
	// #nosec G115 -- limit is bounded by ValidateLimit
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByUserFirstPage(ctx, userID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindByUserKeyset(ctx, userID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

// Usage evaluates the same checks as starting a redemption, in the same order, without
// generating anything.
func (q *redemptionQueriesImpl) Usage(ctx context.Context, userID, couponID uuid.UUID) (*UsageView, error) {
	now := q.clock.Now()

	c, err := q.reads.CouponByID(ctx, couponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	sub, err := q.reads.SubscriberByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	history, err := q.reads.RedemptionHistory(ctx, userID, couponID)
	if err != nil {
		return nil, err
	}

	anchor := sub.AnchorDay().Int()
	limit := c.UsageLimit()
	d := redemption.Evaluate(limit, history, redemption.PeriodAt(anchor, now), now)

	view := &UsageView{
		CouponID:     couponID,
		CanRedeem:    d.Allowed,
		CurrentUsage: d.Used,
		MaxAllowed:   d.Max,
		Remaining:    d.Remaining,
		UsageType:    limit.String(),
		ResetInfo:    limit.ResetInfo(anchor),
	}
	if !d.ResetsAt.IsZero() {
		resetsAt := d.ResetsAt
		view.NextResetAt = &resetsAt
	}

	var reason error
	switch {
	case !sub.IsActiveAt(now):
		reason = redemption.ErrUserNotSubscribed
	case c.Availability(now) != nil:
		reason = c.Availability(now)
	default:
		reason = d.Reason
	}
	if reason != nil {
		view.CanRedeem = false
		view.Reason = string(redemption.KindOf(reason))
	}

	return view, nil
}

func (q *redemptionQueriesImpl) find(ctx context.Context, id uuid.UUID) (*RedemptionView, error) {
	rv, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}
	return rv, nil
}
