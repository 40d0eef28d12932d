package components

import (
	"saverly/internal/infra/memory"
	"saverly/internal/infra/query"
	"saverly/internal/infra/readstore"
	"saverly/internal/infra/uow"
	"saverly/internal/pkg/config"
	"saverly/internal/usecase/queries"
	"saverly/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewSQLQueries,
		NewStores,
	),
)

// Stores is everything the usecases read and write through. Both drivers fill it.
type Stores struct {
	fx.Out

	UnitOfWork  shared.UnitOfWork
	ReadStore   queries.RedemptionReadStore
	PolicyReads queries.PolicyReads
}

func NewStores(cfg config.Config, pool *pgxpool.Pool, q *query.Queries) Stores {
	if cfg.Store.Driver == "memory" || pool == nil {
		st := memory.NewStore()
		return Stores{
			UnitOfWork:  st,
			ReadStore:   st,
			PolicyReads: st.CommandReads(),
		}
	}

	u := uow.NewPostgresUoW(pool, q)
	return Stores{
		UnitOfWork:  u,
		ReadStore:   readstore.NewRedemptionReadStore(q, pool),
		PolicyReads: u.CommandReads(),
	}
}

func NewSQLQueries() *query.Queries {
	return query.New()
}
