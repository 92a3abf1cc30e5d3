package bootstrap

import (
	"houseboat-booking/internal/infra/metrics"
	"houseboat-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.New,
		func(m *metrics.Metrics) shared.BookingMetrics { return m },
	),
	fx.Invoke(func(m *metrics.Metrics, pool *pgxpool.Pool) {
		m.RegisterPool(pool)
	}),
)
