package shared

import (
	"context"
	"time"

	"saverly/internal/domain/coupon"
	"saverly/internal/domain/redemption"
	"saverly/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Redemptions() RedemptionRepository
	Coupons() CouponRepository
	Notifications() NotificationRepository
	Subscriptions() SubscriptionRepository
	Reads() CommandReads
}

// CommandReads return domain objects; a missing row is an infra.KindNotFound error.
type CommandReads interface {
	RedemptionByID(ctx context.Context, id uuid.UUID) (*redemption.Record, error)
	PendingRedemptionByCode(ctx context.Context, code string) (*redemption.Record, error)
	RedemptionHistory(ctx context.Context, userID, couponID uuid.UUID) ([]*redemption.Record, error)
	CouponByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	SubscriberByID(ctx context.Context, id uuid.UUID) (*user.Subscriber, error)
	SubscriberByStripeCustomer(ctx context.Context, customerID string) (*user.Subscriber, error)
}

type RedemptionRepository interface {
	Insert(ctx context.Context, rec *redemption.Record) error
	// SupersedePending cancels any pending record of the pair and reports how many it touched.
	SupersedePending(ctx context.Context, userID, couponID uuid.UUID, at time.Time) (int64, error)
	// Transition persists rec's new terminal status only if the stored row is still pending.
	// A row that already left pending yields an infra.KindConflict error.
	Transition(ctx context.Context, rec *redemption.Record) (*redemption.Record, error)
	ExpireStale(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type CouponRepository interface {
	// Lock returns the coupon and holds it against concurrent confirmations until the transaction ends.
	Lock(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	Claim(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error)
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError *string, runAt time.Time) error
}

type SubscriptionRepository interface {
	// RecordEvent stores the audit row and reports false when the event id was seen before.
	RecordEvent(ctx context.Context, ev SubscriptionEvent) (bool, error)
	Update(ctx context.Context, userID uuid.UUID, upd SubscriptionUpdate) error
}

// SubscriptionOracle answers whether a user's subscription entitles them to redeem right now.
type SubscriptionOracle interface {
	Subscriber(ctx context.Context, userID uuid.UUID) (*user.Subscriber, error)
}

// Publisher delivers relayed notification jobs to the message broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Metrics records the outcome of each redemption operation.
type Metrics interface {
	Observe(op, outcome string, elapsed time.Duration)
	Swept(n int)
}
