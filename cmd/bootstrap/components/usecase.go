package components

import (
	"crypto/rand"

	"saverly/internal/domain/redemption"
	"saverly/internal/infra/billing"
	"saverly/internal/pkg/clock"
	"saverly/internal/usecase"
	"saverly/internal/usecase/commands"
	"saverly/internal/usecase/queries"
	"saverly/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseIdentityModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(sealer redemption.PayloadSealer) *redemption.Generator {
		return redemption.NewGenerator(rand.Reader, sealer)
	},
	fx.Annotate(
		billing.NewOracle,
		fx.As(new(shared.SubscriptionOracle)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRedemptionCommands,
		commands.NewSubscriptionCommands,
		commands.NewNotificationRelay,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRedemptionQueries,
	),
)

var usecaseIdentityModule = fx.Module("usecase/identity",
	fx.Provide(
		usecase.NewIdentityResolver,
	),
)
