package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertSubscriptionEventParams struct {
	ID            uuid.UUID
	StripeEventID string
	EventType     string
	Status        string
	UserID        pgtype.UUID
	Payload       []byte
	ReceivedAt    time.Time
}

// Returns 0 rows affected when the event was already recorded.
const insertSubscriptionEvent = `
INSERT INTO subscription_events (id, stripe_event_id, event_type, status, user_id, payload, received_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (stripe_event_id) DO NOTHING`

func (q *Queries) InsertSubscriptionEvent(ctx context.Context, db DBTX, arg InsertSubscriptionEventParams) (int64, error) {
	tag, err := db.Exec(ctx, insertSubscriptionEvent,
		arg.ID, arg.StripeEventID, arg.EventType, arg.Status, arg.UserID, arg.Payload, arg.ReceivedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
