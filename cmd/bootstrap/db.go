package bootstrap

import (
	"context"
	"log/slog"

	"saverly/internal/infra/db"
	"saverly/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

const storeDriverMemory = "memory"

var DBModule = fx.Module("db",
	fx.Provide(NewDB),
)

// NewDB returns a nil pool for the in-memory store driver; the persistence module then wires the
// memory store instead of postgres.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.Store.Driver == storeDriverMemory {
		logger.Warn("in-memory store selected; data is lost on restart")
		return nil, nil
	}

	pool, closePool, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "host", cfg.DB.Host, "database", cfg.DB.DBName, "max_conns", pool.Config().MaxConns)

	lc.Append(fx.StopHook(func(context.Context) error {
		closePool()
		return nil
	}))
	return pool, nil
}
