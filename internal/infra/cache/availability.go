package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps one Redis hash per boat. Each field is a stay key
// ("2025-06-01:2025-06-03") holding the JSON availability view, so a single
// DEL drops every cached stay for the boat. A per-boat generation counter is
// bumped on every invalidation; Set only writes while the generation read
// before the database query is still current.
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// setIfCurrent: KEYS[1] generation, KEYS[2] hash; ARGV generation, field,
// value, ttl in milliseconds.
var setIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[2], ARGV[4])
return 1
`)

func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl, logger: logger}
}

func Key(boatID uuid.UUID) string {
	return "availability:" + boatID.String()
}

func GenerationKey(boatID uuid.UUID) string {
	return Key(boatID) + ":gen"
}

// Get returns the cached view, or on a miss the generation to hand back to
// Set. An empty generation means Redis is unusable and nothing is stored.
func (c *AvailabilityCache) Get(ctx context.Context, boatID uuid.UUID, stay booking.Stay) (*queries.BoatAvailabilityView, string, bool) {
	gen, err := c.client.Get(ctx, GenerationKey(boatID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		c.logger.Warn("availability cache read failed", "boat_id", boatID.String(), "error", err.Error())
		return nil, "", false
	}

	raw, err := c.client.HGet(ctx, Key(boatID), stay.Key()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("availability cache read failed", "boat_id", boatID.String(), "error", err.Error())
		}
		return nil, gen, false
	}

	var view queries.BoatAvailabilityView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		c.logger.Warn("discarding undecodable availability cache entry", "boat_id", boatID.String(), "error", err.Error())
		return nil, gen, false
	}
	return &view, gen, true
}

func (c *AvailabilityCache) Set(ctx context.Context, boatID uuid.UUID, stay booking.Stay, generation string, view *queries.BoatAvailabilityView) {
	if generation == "" {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("failed to encode availability for cache", "boat_id", boatID.String(), "error", err.Error())
		return
	}

	keys := []string{GenerationKey(boatID), Key(boatID)}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, generation, stay.Key(), string(raw), c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("availability cache write failed", "boat_id", boatID.String(), "error", err.Error())
		return
	}
	if stored == 0 {
		c.logger.Debug("skipped availability computed before an invalidation", "boat_id", boatID.String())
	}
}

// Invalidate bumps the generation before dropping the hash, so a Set racing
// with it either loses the generation check or is deleted with the hash.
func (c *AvailabilityCache) Invalidate(ctx context.Context, boatID uuid.UUID) {
	if err := c.client.Incr(ctx, GenerationKey(boatID)).Err(); err != nil {
		c.logger.Warn("availability cache generation bump failed", "boat_id", boatID.String(), "error", err.Error())
	}
	if err := c.client.Del(ctx, Key(boatID)).Err(); err != nil {
		c.logger.Warn("availability cache invalidation failed", "boat_id", boatID.String(), "error", err.Error())
	}
}

// NopAvailabilityCache is used when no Redis address is configured.
type NopAvailabilityCache struct{}

func (NopAvailabilityCache) Get(context.Context, uuid.UUID, booking.Stay) (*queries.BoatAvailabilityView, string, bool) {
	return nil, "", false
}

func (NopAvailabilityCache) Set(context.Context, uuid.UUID, booking.Stay, string, *queries.BoatAvailabilityView) {
}

func (NopAvailabilityCache) Invalidate(context.Context, uuid.UUID) {}
