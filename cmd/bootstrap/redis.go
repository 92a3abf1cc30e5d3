package bootstrap

import (
	"context"
	"log/slog"

	"houseboat-booking/internal/infra/cache"
	"houseboat-booking/internal/pkg/config"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// AvailabilityCache is both the read-through cache of availability queries
// and the invalidator booking commands call after writes.
type AvailabilityCache interface {
	queries.AvailabilityCache
	shared.AvailabilityInvalidator
}

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewAvailabilityCache,
		func(c AvailabilityCache) queries.AvailabilityCache { return c },
		func(c AvailabilityCache) shared.AvailabilityInvalidator { return c },
	),
)

// NewAvailabilityCache falls back to a no-op cache when REDIS_ADDR is empty.
// An unreachable server at start is only a warning; every cache call
// degrades to a database read.
func NewAvailabilityCache(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) AvailabilityCache {
	if cfg.Redis.Addr == "" {
		logger.Info("availability cache disabled")
		return cache.NopAvailabilityCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, availability cache will miss", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return cache.NewAvailabilityCache(client, cfg.Booking.CacheTTL.Duration, logger)
}
