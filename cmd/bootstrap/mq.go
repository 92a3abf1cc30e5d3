package bootstrap

import (
	"context"
	"log/slog"

	"houseboat-booking/internal/infra/metrics"
	"houseboat-booking/internal/infra/notify"
	"houseboat-booking/internal/pkg/clock"
	"houseboat-booking/internal/pkg/config"
	"houseboat-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var MQModule = fx.Module("mq",
	fx.Provide(
		NewPublisher,
		NewDispatcher,
		func(d *notify.Dispatcher) shared.Notifier { return d },
		func(d *notify.Dispatcher) shared.Mailer { return d },
	),
)

// NewPublisher routes notifications to the log when RABBIT_URL is empty.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (notify.Publisher, error) {
	if cfg.MQ.URL == "" {
		logger.Info("RabbitMQ not configured, notifications go to the log")
		return notify.NewLogPublisher(logger), nil
	}

	pub, err := notify.NewAMQPPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}

func NewDispatcher(lc fx.Lifecycle, pub notify.Publisher, m *metrics.Metrics, clk clock.Clock, cfg config.Config, logger *slog.Logger) *notify.Dispatcher {
	d := notify.NewDispatcher(pub, m, clk, cfg.Booking.NotifyTimeout, logger)
	lc.Append(fx.Hook{
		// Drain in-flight deliveries before the publisher closes.
		OnStop: func(ctx context.Context) error {
			if err := d.Wait(ctx); err != nil {
				logger.Warn("notifications still in flight at shutdown", "error", err.Error())
			}
			return nil
		},
	})
	return d
}
