package bootstrap

import (
	"saverly/cmd/bootstrap/components"
	"saverly/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(config.LoadConfig),
)

// APIModule is the HTTP surface and everything behind it. It expects a config.Config and a
// *pgxpool.Pool to be provided, which lets tests supply their own.
var APIModule = fx.Options(
	LoggerModule,
	JWTModule,
	InfraModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)

// Module is the whole service: API plus the sweeper and outbox relay.
var Module = fx.Options(
	ConfigModule,
	DBModule,
	APIModule,
	WorkerModule,
)
