package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"saverly/internal/pkg/config"
	"saverly/internal/usecase/commands"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("workers",
	fx.Invoke(
		StartWorkers,
	),
)

// StartWorkers runs the expiry sweeper and the notification relay on fixed intervals until
// the application stops.
func StartWorkers(lc fx.Lifecycle, cfg config.Config, redemptions commands.RedemptionCommands, relay commands.NotificationRelay) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	rc := cfg.Redemption
	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) (int, error)
	}{
		{"redemption-sweeper", rc.SweepInterval, func(ctx context.Context) (int, error) {
			return redemptions.ExpireStale(ctx, rc.SweepBatch)
		}},
		{"notification-relay", rc.RelayInterval, func(ctx context.Context) (int, error) {
			return relay.RelayPending(ctx, rc.RelayBatch)
		}},
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			for _, j := range jobs {
				j := j
				wg.Add(1)
				go func() {
					defer wg.Done()
					runEvery(ctx, j.name, j.interval, j.run)
				}()
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			wg.Wait()
			return nil
		},
	})
}

func runEvery(ctx context.Context, name string, interval time.Duration, run func(context.Context) (int, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := run(ctx)
			if err != nil {
				slog.Error("worker run failed", "worker", name, "error", err)
				continue
			}
			if n > 0 {
				slog.Info("worker run", "worker", name, "processed", n)
			}
		}
	}
}
