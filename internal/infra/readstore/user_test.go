//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"saverly/internal/domain/user"
	"saverly/internal/infra"
	"saverly/internal/infra/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserReadQueries struct {
	mock.Mock
}

func (m *MockUserReadQueries) GetUser(ctx context.Context, db query.DBTX, id uuid.UUID) (query.User, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(query.User), args.Error(1)
}

func (m *MockUserReadQueries) GetUserByStripeCustomer(ctx context.Context, db query.DBTX, customerID string) (query.User, error) {
	args := m.Called(ctx, db, customerID)
	return args.Get(0).(query.User), args.Error(1)
}

func userRow() query.User {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	return query.User{
		ID:                      uuid.New(),
		Email:                   "consumer@example.com",
		Role:                    "consumer",
		SubscriptionStatus:      "active",
		SubscriptionPeriodStart: pgtype.Timestamptz{Time: start, Valid: true},
		SubscriptionPeriodEnd:   pgtype.Timestamptz{Time: start.AddDate(0, 1, 0), Valid: true},
		StripeCustomerID:        pgtype.Text{String: "cus_123", Valid: true},
	}
}

func TestFindSubscriber(t *testing.T) {
	row := userRow()

	tests := []struct {
		name       string
		mockReturn query.User
		mockError  error
		wantKind   infra.RepositoryErrorKind
	}{
		{
			name:       "success - anchor day falls back to period start",
			mockReturn: row,
		},
		{
			name:       "user not found",
			mockReturn: query.User{},
			mockError:  pgx.ErrNoRows,
			wantKind:   infra.KindNotFound,
		},
		{
			name:       "database error",
			mockReturn: query.User{},
			mockError:  assert.AnError,
			wantKind:   infra.KindDBFailure,
		},
		{
			name:       "unknown role in storage",
			mockReturn: func() query.User { r := userRow(); r.Role = "owner"; return r }(),
			wantKind:   infra.KindDBFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockUserReadQueries)
			mockQueries.On("GetUser", mock.Anything, mock.Anything, row.ID).Return(tt.mockReturn, tt.mockError)

			store := NewUserReadStore(mockQueries, nil)

			sub, err := store.FindSubscriber(context.Background(), row.ID)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Nil(t, sub)
				assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, row.ID, sub.ID())
				assert.Equal(t, user.RoleConsumer, sub.Role())
				assert.Equal(t, user.AnchorDay(31), sub.AnchorDay())
				assert.True(t, sub.IsActiveAt(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))
			}

			mockQueries.AssertExpectations(t)
		})
	}
}

func TestFindSubscriberByStripeCustomer(t *testing.T) {
	row := userRow()
	row.SubscriptionAnchorDay = pgtype.Int4{Int32: 12, Valid: true}

	mockQueries := new(MockUserReadQueries)
	mockQueries.On("GetUserByStripeCustomer", mock.Anything, mock.Anything, "cus_123").Return(row, nil)

	store := NewUserReadStore(mockQueries, nil)

	sub, err := store.FindSubscriberByStripeCustomer(context.Background(), "cus_123")

	require.NoError(t, err)
	assert.Equal(t, user.AnchorDay(12), sub.AnchorDay())
	mockQueries.AssertExpectations(t)
}
