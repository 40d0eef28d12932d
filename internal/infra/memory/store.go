// Package memory is a process-local store for development runs and tests. It implements the
// same unit-of-work contract and uniqueness rules as the Postgres store.
package memory

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"sync"
	"time"

	"saverly/internal/domain/coupon"
	"saverly/internal/domain/redemption"
	"saverly/internal/domain/user"
	"saverly/internal/infra"
	"saverly/internal/usecase/queries"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

const maxRetries = 3

// Store serializes transactions with one mutex. Each transaction works on a copy of the
// state that replaces the committed state only when the closure succeeds.
type Store struct {
	mu    sync.Mutex
	state *state

	// failInsert makes every redemption insert fail; tests use it to simulate an outage.
	failInsert error
}

type state struct {
	redemptions map[uuid.UUID]redemption.ReconstructParams
	coupons     map[uuid.UUID]*coupon.Coupon
	users       map[uuid.UUID]*user.Subscriber
	customers   map[string]uuid.UUID
	jobs        map[uuid.UUID]shared.NotificationJob
	events      map[string]shared.SubscriptionEvent
}

func newState() *state {
	return &state{
		redemptions: make(map[uuid.UUID]redemption.ReconstructParams),
		coupons:     make(map[uuid.UUID]*coupon.Coupon),
		users:       make(map[uuid.UUID]*user.Subscriber),
		customers:   make(map[string]uuid.UUID),
		jobs:        make(map[uuid.UUID]shared.NotificationJob),
		events:      make(map[string]shared.SubscriptionEvent),
	}
}

// Stored values are never mutated in place, so a shallow copy of each map is enough.
func (s *state) clone() *state {
	return &state{
		redemptions: maps.Clone(s.redemptions),
		coupons:     maps.Clone(s.coupons),
		users:       maps.Clone(s.users),
		customers:   maps.Clone(s.customers),
		jobs:        maps.Clone(s.jobs),
		events:      maps.Clone(s.events),
	}
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var _ shared.UnitOfWork = (*Store)(nil)
var _ queries.RedemptionReadStore = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		work := s.state.clone()
		err = fn(ctx, &memTx{store: s, st: work})
		if err == nil {
			s.state = work
			return nil
		}
		if !isPendingConflict(err) {
			return err
		}
		slog.Warn("retrying transaction due to retryable error", "attempt", attempt+1, "error", err.Error())
	}
	return err
}

func isPendingConflict(err error) bool {
	if !infra.IsKind(err, infra.KindDuplicateKey) {
		return false
	}
	c := infra.ConstraintOf(err)
	return c == constraintPendingPair || c == constraintPendingCode
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &reads{st: s.state})
}

// CommandReads reads committed state. Do not call it from inside Within; use tx.Reads().
func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{store: s}
}

// AddCoupon and AddSubscriber seed reference data that this service reads but does not own.
func (s *Store) AddCoupon(c *coupon.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.coupons[c.ID()] = c
}

func (s *Store) AddSubscriber(sub *user.Subscriber, stripeCustomerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[sub.ID()] = sub
	if stripeCustomerID != "" {
		s.state.customers[stripeCustomerID] = sub.ID()
	}
}

// FailInserts makes redemption inserts fail with err until called again with nil.
func (s *Store) FailInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failInsert = err
}

// Jobs returns a snapshot of the notification outbox.
func (s *Store) Jobs() []shared.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.NotificationJob, 0, len(s.state.jobs))
	for _, j := range s.state.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].RunAt.Before(out[k].RunAt) })
	return out
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*queries.RedemptionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.redemptions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "redemption not found")
	}
	return s.state.view(p), nil
}

func (s *Store) FindByUserFirstPage(_ context.Context, userID uuid.UUID, limit int32) ([]*queries.RedemptionView, error) {
	return s.listByUser(userID, func(queries.RedemptionView) bool { return true }, limit), nil
}

func (s *Store) FindByUserKeyset(_ context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.RedemptionView, error) {
	after := func(v queries.RedemptionView) bool {
		if v.CreatedAt.Equal(lastCreatedAt) {
			return v.ID.String() < lastID.String()
		}
		return v.CreatedAt.Before(lastCreatedAt)
	}
	return s.listByUser(userID, after, limit), nil
}

func (s *Store) listByUser(userID uuid.UUID, keep func(queries.RedemptionView) bool, limit int32) []*queries.RedemptionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*queries.RedemptionView
	for _, p := range s.state.redemptions {
		if p.UserID != userID {
			continue
		}
		if v := s.state.view(p); keep(*v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID.String() > out[k].ID.String()
		}
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out
}

func (s *state) view(p redemption.ReconstructParams) *queries.RedemptionView {
	v := &queries.RedemptionView{
		ID:          p.ID,
		UserID:      p.UserID,
		CouponID:    p.CouponID,
		BusinessID:  p.BusinessID,
		Status:      p.Status.String(),
		QRPayload:   p.QRPayload,
		ManualCode:  p.ManualCode,
		PeriodStart: p.PeriodStart,
		CreatedAt:   p.CreatedAt,
		ExpiresAt:   p.ExpiresAt,
		RedeemedAt:  p.RedeemedAt,
		FinalizedAt: p.FinalizedAt,
	}
	if c, ok := s.coupons[p.CouponID]; ok {
		v.CouponTitle = c.Title()
	}
	return v
}

func paramsOf(rec *redemption.Record) redemption.ReconstructParams {
	return redemption.ReconstructParams{
		ID:          rec.ID(),
		UserID:      rec.UserID(),
		CouponID:    rec.CouponID(),
		BusinessID:  rec.BusinessID(),
		Status:      rec.Status(),
		QRPayload:   rec.QRPayload(),
		ManualCode:  rec.ManualCode(),
		PeriodStart: rec.PeriodStart(),
		CreatedAt:   rec.CreatedAt(),
		ExpiresAt:   rec.ExpiresAt(),
		RedeemedAt:  rec.RedeemedAt(),
		FinalizedAt: rec.FinalizedAt(),
	}
}
