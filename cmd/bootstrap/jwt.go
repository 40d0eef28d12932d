package bootstrap

import (
	"fmt"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/pkg/config"
	"saverly/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		fx.Annotate(
			NewPayloadSealer,
			fx.As(new(redemption.PayloadSealer)),
		),
	),
)

// NewJWTService verifies bearer tokens from the auth provider.
func NewJWTService(cfg config.Config) (*jwt.Service, error) {
	ttl, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_DURATION %q: %w", cfg.JWT.Duration, err)
	}
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Audience, ttl), nil
}

func NewPayloadSealer(cfg config.Config) *jwt.PayloadSealer {
	return jwt.NewPayloadSealer(cfg.JWT.PayloadSecret)
}
