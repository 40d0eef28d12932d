package billing

import (
	"context"

	"saverly/internal/domain/user"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

// Oracle answers "is this user subscribed" from the user row that the webhook keeps current.
type Oracle struct {
	reads shared.CommandReads
}

func NewOracle(uow shared.UnitOfWork) *Oracle {
	return &Oracle{reads: uow.CommandReads()}
}

func (o *Oracle) Subscriber(ctx context.Context, userID uuid.UUID) (*user.Subscriber, error) {
	return o.reads.SubscriberByID(ctx, userID)
}
