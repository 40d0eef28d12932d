//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"saverly/internal/infra/memory"
	"saverly/internal/pkg/clock"
	"saverly/internal/usecase/commands"
	"saverly/internal/usecase/shared"
	"saverly/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

func enqueue(t *testing.T, store *memory.Store, payload string, runAt time.Time) {
	t.Helper()
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, commands.JobKindRedemptionConfirmed, commands.JobTopicRedemptions, []byte(payload), runAt)
	})
	require.NoError(t, err)
}

func TestNotificationRelay_RelayPending(t *testing.T) {
	ctx := context.Background()

	t.Run("due jobs are published and marked sent", func(t *testing.T) {
		store := memory.NewStore()
		clk := clock.NewMockClock(builder.BaseTime)
		enqueue(t, store, `{"n":1}`, builder.BaseTime.Add(-time.Minute))
		enqueue(t, store, `{"n":2}`, builder.BaseTime)

		pub := new(MockPublisher)
		pub.On("Publish", mock.Anything, commands.JobTopicRedemptions, mock.Anything).Return(nil).Twice()

		sent, err := commands.NewNotificationRelay(store, pub, clk).RelayPending(ctx, 10)

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		for _, j := range store.Jobs() {
			assert.Equal(t, shared.JobStatusSent, j.Status)
			assert.Nil(t, j.LastError)
		}
		pub.AssertExpectations(t)
	})

	t.Run("future jobs wait", func(t *testing.T) {
		store := memory.NewStore()
		clk := clock.NewMockClock(builder.BaseTime)
		enqueue(t, store, `{}`, builder.BaseTime.Add(time.Second))

		pub := new(MockPublisher)
		sent, err := commands.NewNotificationRelay(store, pub, clk).RelayPending(ctx, 10)

		require.NoError(t, err)
		assert.Zero(t, sent)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed publish is retried with backoff until attempts run out", func(t *testing.T) {
		store := memory.NewStore()
		clk := clock.NewMockClock(builder.BaseTime)
		enqueue(t, store, `{}`, builder.BaseTime)

		pub := new(MockPublisher)
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
		relay := commands.NewNotificationRelay(store, pub, clk)

		delays := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second}
		for i, d := range delays {
			sent, err := relay.RelayPending(ctx, 10)
			require.NoError(t, err)
			assert.Zero(t, sent)

			jobs := store.Jobs()
			require.Len(t, jobs, 1)
			assert.Equal(t, shared.JobStatusQueued, jobs[0].Status)
			assert.Equal(t, i+1, jobs[0].Attempts)
			assert.Equal(t, clk.Now().Add(d), jobs[0].RunAt)
			require.NotNil(t, jobs[0].LastError)
			assert.Equal(t, "broker down", *jobs[0].LastError)

			clk.Set(jobs[0].RunAt)
		}

		_, err := relay.RelayPending(ctx, 10)
		require.NoError(t, err)
		jobs := store.Jobs()
		require.Len(t, jobs, 1)
		assert.Equal(t, shared.JobStatusFailed, jobs[0].Status)

		clk.Add(time.Hour)
		_, err = relay.RelayPending(ctx, 10)
		require.NoError(t, err)
		pub.AssertNumberOfCalls(t, "Publish", 5)
	})
}
