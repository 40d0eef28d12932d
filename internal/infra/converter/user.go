package converter

import (
	"saverly/internal/domain/user"
	"saverly/internal/infra/query"
	"saverly/internal/pkg/pgconv"
	"saverly/internal/usecase/shared"

	"github.com/google/uuid"
)

func SubscriberFromRow(row query.User) (*user.Subscriber, error) {
	role, err := user.NewRole(row.Role)
	if err != nil {
		return nil, err
	}

	return user.NewSubscriber(user.SubscriberParams{
		ID:          row.ID,
		Role:        role,
		BusinessID:  pgconv.UUIDPtrFromPgtype(row.BusinessID),
		Status:      user.NewSubscriptionStatus(row.SubscriptionStatus),
		PeriodStart: pgconv.TimePtrFromPgtype(row.SubscriptionPeriodStart),
		PeriodEnd:   pgconv.TimePtrFromPgtype(row.SubscriptionPeriodEnd),
		AnchorDay:   pgconv.IntPtrFromPgtype(row.SubscriptionAnchorDay),
	})
}

func SubscriptionUpdateToParams(userID uuid.UUID, upd shared.SubscriptionUpdate) query.UpdateUserSubscriptionParams {
	return query.UpdateUserSubscriptionParams{
		ID:                   userID,
		Status:               upd.Status.String(),
		PeriodStart:          pgconv.TimePtrToPgtype(upd.PeriodStart),
		PeriodEnd:            pgconv.TimePtrToPgtype(upd.PeriodEnd),
		AnchorDay:            pgconv.IntPtrToPgtype(upd.AnchorDay),
		StripeSubscriptionID: pgconv.StringPtrToPgtype(upd.StripeSubscriptionID),
	}
}
