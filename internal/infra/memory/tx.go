package memory

import (
	"context"
	"sort"
	"time"

	"saverly/internal/domain/coupon"
	"saverly/internal/domain/redemption"
	"saverly/internal/domain/user"
	"saverly/internal/infra"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	constraintPendingPair = "uq_redemptions_pending_pair"
	constraintPendingCode = "uq_redemptions_pending_code"
)

type memTx struct {
	store *Store
	st    *state
}

func (t *memTx) Redemptions() shared.RedemptionRepository     { return &redemptionRepo{t} }
func (t *memTx) Coupons() shared.CouponRepository             { return &couponRepo{t} }
func (t *memTx) Notifications() shared.NotificationRepository { return &notificationRepo{t} }
func (t *memTx) Subscriptions() shared.SubscriptionRepository { return &subscriptionRepo{t} }
func (t *memTx) Reads() shared.CommandReads                   { return &reads{st: t.st} }

type redemptionRepo struct{ tx *memTx }

func (r *redemptionRepo) Insert(_ context.Context, rec *redemption.Record) error {
	if err := r.tx.store.failInsert; err != nil {
		return infra.WrapRepoErr("failed to insert redemption", err)
	}

	st := r.tx.st
	if _, ok := st.redemptions[rec.ID()]; ok {
		return infra.NewConstraintErr(infra.KindDuplicateKey, "redemptions_pkey", "redemption already exists")
	}
	for _, p := range st.redemptions {
		if p.Status != redemption.StatusPending {
			continue
		}
		if p.UserID == rec.UserID() && p.CouponID == rec.CouponID() {
			return infra.NewConstraintErr(infra.KindDuplicateKey, constraintPendingPair, "pending redemption exists for user and coupon")
		}
		if p.ManualCode == rec.ManualCode() {
			return infra.NewConstraintErr(infra.KindDuplicateKey, constraintPendingCode, "manual code is in use")
		}
	}
	if _, ok := st.coupons[rec.CouponID()]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "coupon does not exist")
	}

	st.redemptions[rec.ID()] = paramsOf(rec)
	return nil
}

func (r *redemptionRepo) SupersedePending(_ context.Context, userID, couponID uuid.UUID, at time.Time) (int64, error) {
	var n int64
	for id, p := range r.tx.st.redemptions {
		if p.Status == redemption.StatusPending && p.UserID == userID && p.CouponID == couponID {
			p.Status = redemption.StatusCancelled
			p.FinalizedAt = &at
			r.tx.st.redemptions[id] = p
			n++
		}
	}
	return n, nil
}

func (r *redemptionRepo) Transition(_ context.Context, rec *redemption.Record) (*redemption.Record, error) {
	if !redemption.StatusPending.CanTransition(rec.Status()) || rec.FinalizedAt() == nil {
		return nil, infra.NewRepoErr(infra.KindConflict, "redemption has no terminal transition to persist")
	}

	stored, ok := r.tx.st.redemptions[rec.ID()]
	if !ok || stored.Status != redemption.StatusPending {
		return nil, infra.NewRepoErr(infra.KindConflict, "redemption is no longer pending")
	}

	stored.Status = rec.Status()
	stored.FinalizedAt = rec.FinalizedAt()
	stored.RedeemedAt = rec.RedeemedAt()
	r.tx.st.redemptions[rec.ID()] = stored
	return redemption.Reconstruct(stored), nil
}

func (r *redemptionRepo) ExpireStale(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var stale []redemption.ReconstructParams
	for _, p := range r.tx.st.redemptions {
		if p.Status == redemption.StatusPending && p.ExpiresAt.Before(now) {
			stale = append(stale, p)
		}
	}
	sort.Slice(stale, func(i, k int) bool { return stale[i].ExpiresAt.Before(stale[k].ExpiresAt) })
	if len(stale) > limit {
		stale = stale[:limit]
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, p := range stale {
		p.Status = redemption.StatusExpired
		p.FinalizedAt = &now
		r.tx.st.redemptions[p.ID] = p
		ids = append(ids, p.ID)
	}
	return ids, nil
}

type couponRepo struct{ tx *memTx }

// Lock needs no extra work: the store mutex already serializes transactions.
func (r *couponRepo) Lock(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	c, ok := r.tx.st.coupons[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "coupon not found")
	}
	return c, nil
}

func (r *couponRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	c, ok := r.tx.st.coupons[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "coupon not found")
	}
	r.tx.st.coupons[id] = coupon.Reconstruct(
		c.ID(), c.BusinessID(),
		c.Title(), c.Description(),
		c.Discount(),
		c.Active(),
		c.StartsAt(), c.EndsAt(),
		c.UsageLimit(),
		c.UsageCount()+1,
		c.CreatedAt(), time.Now().UTC(),
	)
	return nil
}

type notificationRepo struct{ tx *memTx }

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	id := uuid.New()
	r.tx.st.jobs[id] = shared.NotificationJob{
		ID:      id,
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   runAt,
		Status:  shared.JobStatusQueued,
	}
	return nil
}

func (r *notificationRepo) Claim(_ context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	var out []shared.NotificationJob
	for _, j := range r.tx.st.jobs {
		if j.Status == shared.JobStatusQueued && !j.RunAt.After(now) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].RunAt.Before(out[k].RunAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepo) UpdateJobStatus(_ context.Context, jobID uuid.UUID, status string, lastError *string, runAt time.Time) error {
	j, ok := r.tx.st.jobs[jobID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "notification job not found")
	}
	j.Status = status
	j.LastError = lastError
	j.RunAt = runAt
	j.Attempts++
	r.tx.st.jobs[jobID] = j
	return nil
}

type subscriptionRepo struct{ tx *memTx }

func (r *subscriptionRepo) RecordEvent(_ context.Context, ev shared.SubscriptionEvent) (bool, error) {
	if _, ok := r.tx.st.events[ev.StripeEventID]; ok {
		return false, nil
	}
	r.tx.st.events[ev.StripeEventID] = ev
	return true, nil
}

func (r *subscriptionRepo) Update(_ context.Context, userID uuid.UUID, upd shared.SubscriptionUpdate) error {
	cur, ok := r.tx.st.users[userID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "user not found")
	}

	anchor := upd.AnchorDay
	if anchor == nil {
		a := cur.AnchorDay().Int()
		anchor = &a
	}
	next, err := user.NewSubscriber(user.SubscriberParams{
		ID:          cur.ID(),
		Role:        cur.Role(),
		BusinessID:  cur.BusinessID(),
		Status:      upd.Status,
		PeriodStart: upd.PeriodStart,
		PeriodEnd:   upd.PeriodEnd,
		AnchorDay:   anchor,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update subscription", err)
	}
	r.tx.st.users[userID] = next
	return nil
}

type reads struct{ st *state }

func (r *reads) RedemptionByID(_ context.Context, id uuid.UUID) (*redemption.Record, error) {
	p, ok := r.st.redemptions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "redemption not found")
	}
	return redemption.Reconstruct(p), nil
}

func (r *reads) PendingRedemptionByCode(_ context.Context, code string) (*redemption.Record, error) {
	for _, p := range r.st.redemptions {
		if p.Status == redemption.StatusPending && p.ManualCode == code {
			return redemption.Reconstruct(p), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "redemption not found")
}

func (r *reads) RedemptionHistory(_ context.Context, userID, couponID uuid.UUID) ([]*redemption.Record, error) {
	var out []*redemption.Record
	for _, p := range r.st.redemptions {
		if p.UserID == userID && p.CouponID == couponID {
			out = append(out, redemption.Reconstruct(p))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt().Before(out[k].CreatedAt()) })
	return out, nil
}

func (r *reads) CouponByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	c, ok := r.st.coupons[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "coupon not found")
	}
	return c, nil
}

func (r *reads) SubscriberByID(_ context.Context, id uuid.UUID) (*user.Subscriber, error) {
	sub, ok := r.st.users[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return sub, nil
}

func (r *reads) SubscriberByStripeCustomer(ctx context.Context, customerID string) (*user.Subscriber, error) {
	id, ok := r.st.customers[customerID]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return r.SubscriberByID(ctx, id)
}

// lockedReads takes the store mutex for each call so it can be used outside a transaction.
type lockedReads struct{ store *Store }

func (l *lockedReads) do(fn func(r *reads)) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	fn(&reads{st: l.store.state})
}

func (l *lockedReads) RedemptionByID(ctx context.Context, id uuid.UUID) (rec *redemption.Record, err error) {
	l.do(func(r *reads) { rec, err = r.RedemptionByID(ctx, id) })
	return rec, err
}

func (l *lockedReads) PendingRedemptionByCode(ctx context.Context, code string) (rec *redemption.Record, err error) {
	l.do(func(r *reads) { rec, err = r.PendingRedemptionByCode(ctx, code) })
	return rec, err
}

func (l *lockedReads) RedemptionHistory(ctx context.Context, userID, couponID uuid.UUID) (out []*redemption.Record, err error) {
	l.do(func(r *reads) { out, err = r.RedemptionHistory(ctx, userID, couponID) })
	return out, err
}

func (l *lockedReads) CouponByID(ctx context.Context, id uuid.UUID) (c *coupon.Coupon, err error) {
	l.do(func(r *reads) { c, err = r.CouponByID(ctx, id) })
	return c, err
}

func (l *lockedReads) SubscriberByID(ctx context.Context, id uuid.UUID) (sub *user.Subscriber, err error) {
	l.do(func(r *reads) { sub, err = r.SubscriberByID(ctx, id) })
	return sub, err
}

func (l *lockedReads) SubscriberByStripeCustomer(ctx context.Context, customerID string) (sub *user.Subscriber, err error) {
	l.do(func(r *reads) { sub, err = r.SubscriberByStripeCustomer(ctx, customerID) })
	return sub, err
}
