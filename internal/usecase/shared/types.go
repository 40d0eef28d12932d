package shared

import (
	"time"

	"saverly/internal/domain/user"

	"github.com/google/uuid"
)

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusFailed = "failed"
)

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int
	Status    string
	LastError *string
}

type SubscriptionUpdate struct {
	Status               user.SubscriptionStatus
	PeriodStart          *time.Time
	PeriodEnd            *time.Time
	AnchorDay            *int
	StripeSubscriptionID *string
}

type SubscriptionEvent struct {
	ID            uuid.UUID
	StripeEventID string
	EventType     string
	Status        string
	UserID        *uuid.UUID
	Payload       []byte
	ReceivedAt    time.Time
}
