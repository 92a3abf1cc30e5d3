package components

import (
	"log/slog"

	"houseboat-booking/internal/infra/metrics"
	"houseboat-booking/internal/infra/readstore"
	"houseboat-booking/internal/infra/uow"
	"houseboat-booking/internal/pkg/config"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		// Settings
		fx.Annotate(
			NewSettingsReadStore,
			fx.As(new(shared.SettingsReader)),
		),
	),
)

// Repositories are owned by the unit of work and reached through shared.Tx.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			NewUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewBookingReadStore(pool *pgxpool.Pool, logger *slog.Logger) *readstore.BookingReadStore {
	return readstore.NewBookingReadStore(pool, logger)
}

func NewSettingsReadStore(pool *pgxpool.Pool, logger *slog.Logger, cfg config.Config) *readstore.SettingsReadStore {
	return readstore.NewSettingsReadStore(pool, logger, cfg.Booking.DefaultMinNights)
}

func NewUnitOfWork(pool *pgxpool.Pool, logger *slog.Logger, cfg config.Config, m *metrics.Metrics) *uow.PostgresUoW {
	return uow.NewPostgresUoW(pool, logger, uow.Options{
		MaxRetries:  cfg.DB.TxMaxRetries,
		LockTimeout: cfg.DB.LockTimeout,
	}, m)
}
