package bootstrap

import (
	"context"
	"log/slog"

	"houseboat-booking/internal/pkg/config"
	"houseboat-booking/internal/usecase/commands"
	"houseboat-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(StartExpiryWorker),
)

func StartExpiryWorker(lc fx.Lifecycle, cmds commands.BookingCommands, cfg config.Config, logger *slog.Logger) {
	w := worker.NewExpiryWorker(cmds, cfg.Booking.SweepInterval.Duration, logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return w.Stop(ctx)
		},
	})
}
