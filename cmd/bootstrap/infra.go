package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"saverly/internal/handler/api"
	"saverly/internal/handler/middleware"
	"saverly/internal/infra/billing"
	"saverly/internal/infra/broker"
	"saverly/internal/infra/metrics"
	"saverly/internal/infra/ratelimit"
	"saverly/internal/pkg/config"
	"saverly/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const startRatePrefix = "saverly:ratelimit"

var InfraModule = fx.Module("infra",
	fx.Provide(
		fx.Annotate(
			metrics.NewRecorder,
			fx.As(fx.Self()),
			fx.As(new(shared.Metrics)),
		),
		NewRedis,
		NewRateLimiter,
		fx.Annotate(
			NewPublisher,
			fx.As(new(shared.Publisher)),
		),
		fx.Annotate(
			NewWebhookDecoder,
			fx.As(new(api.BillingEventDecoder)),
		),
	),
)

// NewRedis returns nil when REDIS_ADDR is empty or the server does not answer; rate limiting is
// then disabled.
func NewRedis(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

func NewRateLimiter(cfg config.Config, client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return ratelimit.NewLimiter(client, startRatePrefix, cfg.Redemption.StartRateLimit, cfg.Redemption.StartRateWindow)
}

type closablePublisher interface {
	shared.Publisher
	Close() error
}

func NewPublisher(lc fx.Lifecycle, cfg config.Config) closablePublisher {
	var pub closablePublisher = broker.NewLogPublisher()
	if cfg.AMQP.URL != "" {
		pub = broker.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}

func NewWebhookDecoder(cfg config.Config) *billing.WebhookDecoder {
	return billing.NewWebhookDecoder(cfg.Stripe.WebhookSecret)
}
