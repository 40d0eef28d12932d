package commands

import (
	"context"
	"log/slog"
	"time"

	"saverly/internal/pkg/clock"
	"saverly/internal/usecase/shared"
)

const (
	maxNotificationAttempts = 5
	notificationRetryBase   = 10 * time.Second
)

// NotificationRelay drains the outbox written by Confirm and hands each job to the broker.
type NotificationRelay interface {
	RelayPending(ctx context.Context, limit int) (int, error)
}

type notificationRelayImpl struct {
	uow       shared.UnitOfWork
	publisher shared.Publisher
	clock     clock.Clock
}

func NewNotificationRelay(uow shared.UnitOfWork, publisher shared.Publisher, clk clock.Clock) NotificationRelay {
	return &notificationRelayImpl{uow: uow, publisher: publisher, clock: clk}
}

// RelayPending publishes up to limit due jobs and returns how many were sent. Delivery is
// at-least-once: a crash after publishing but before commit re-sends the job.
func (r *notificationRelayImpl) RelayPending(ctx context.Context, limit int) (int, error) {
	now := r.clock.Now()
	sent := 0

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		jobs, err := tx.Notifications().Claim(ctx, now, limit)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			perr := r.publisher.Publish(ctx, job.Topic, job.Payload)
			if perr == nil {
				if err := tx.Notifications().UpdateJobStatus(ctx, job.ID, shared.JobStatusSent, nil, job.RunAt); err != nil {
					return err
				}
				sent++
				continue
			}

			msg := perr.Error()
			status, runAt := shared.JobStatusQueued, now.Add(retryDelay(job.Attempts))
			if job.Attempts+1 >= maxNotificationAttempts {
				status = shared.JobStatusFailed
			}
			slog.Warn("notification publish failed",
				"job_id", job.ID,
				"kind", job.Kind,
				"attempt", job.Attempts+1,
				"status", status,
				"error", msg)
			if err := tx.Notifications().UpdateJobStatus(ctx, job.ID, status, &msg, runAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func retryDelay(attempts int) time.Duration {
	return time.Duration(1<<min(attempts, 6)) * notificationRetryBase
}
