package bootstrap

import (
	"log/slog"

	"houseboat-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logBookingPolicy),
)

func logBookingPolicy(cfg config.Config, logger *slog.Logger) {
	logger.Info("booking policy loaded",
		"policy_file", cfg.Booking.PolicyFile,
		"fallback_room_price", cfg.Booking.FallbackPrice,
		"default_min_nights", cfg.Booking.DefaultMinNights,
		"sweep_interval", cfg.Booking.SweepInterval.String(),
		"availability_cache_ttl", cfg.Booking.CacheTTL.String(),
		"callback_secret_set", cfg.Payment.CallbackSecret != "")
}
