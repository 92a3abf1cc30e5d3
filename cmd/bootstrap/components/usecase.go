package components

import (
	"log/slog"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/money"
	"houseboat-booking/internal/pkg/clock"
	"houseboat-booking/internal/pkg/config"
	"houseboat-booking/internal/usecase"
	"houseboat-booking/internal/usecase/commands"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewNightlyPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
		// The commands double as the sweep run before list reads.
		func(c commands.BookingCommands) queries.ExpirySweeper { return c },
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

type bookingCommandDeps struct {
	fx.In

	UoW      shared.UnitOfWork
	Settings shared.SettingsReader
	Pricing  booking.PriceCalculator
	Notifier shared.Notifier
	Mailer   shared.Mailer
	Cache    shared.AvailabilityInvalidator
	Metrics  shared.BookingMetrics
	Clock    clock.Clock
	Config   config.Config
	Logger   *slog.Logger
}

func NewBookingCommands(d bookingCommandDeps) commands.BookingCommands {
	return commands.NewBookingCommands(
		d.UoW,
		d.Settings,
		d.Pricing,
		d.Notifier,
		d.Mailer,
		d.Cache,
		d.Metrics,
		d.Clock,
		money.MustFromMajor(d.Config.Booking.FallbackPrice),
		d.Logger,
	)
}

func NewAvailabilityQueries(uow shared.UnitOfWork, cache queries.AvailabilityCache, cfg config.Config) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(uow, cache, money.MustFromMajor(cfg.Booking.FallbackPrice))
}
