package readstore

import (
	"context"

	"saverly/internal/domain/user"
	"saverly/internal/infra"
	"saverly/internal/infra/converter"
	"saverly/internal/infra/query"

	"github.com/google/uuid"
)

type UserReadQueries interface {
	GetUser(ctx context.Context, db query.DBTX, id uuid.UUID) (query.User, error)
	GetUserByStripeCustomer(ctx context.Context, db query.DBTX, customerID string) (query.User, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      query.DBTX
}

func NewUserReadStore(queries UserReadQueries, db query.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *UserReadStore) FindSubscriber(ctx context.Context, id uuid.UUID) (*user.Subscriber, error) {
	row, err := s.queries.GetUser(ctx, s.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get user", err)
	}
	return toSubscriber(row)
}

func (s *UserReadStore) FindSubscriberByStripeCustomer(ctx context.Context, customerID string) (*user.Subscriber, error) {
	row, err := s.queries.GetUserByStripeCustomer(ctx, s.db, customerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get user by stripe customer", err)
	}
	return toSubscriber(row)
}

func toSubscriber(row query.User) (*user.Subscriber, error) {
	sub, err := converter.SubscriberFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert user", err)
	}
	return sub, nil
}
