package readstore

import (
	"context"
	"log/slog"
	"strconv"

	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
)

const keyMinBookingNights = "min_booking_nights"

// SettingsReadStore reads policy values owned by the back office. Missing or
// unparsable values fall back to the configured defaults.
type SettingsReadStore struct {
	db               db.DBTX
	logger           *slog.Logger
	defaultMinNights int
}

func NewSettingsReadStore(dbtx db.DBTX, logger *slog.Logger, defaultMinNights int) *SettingsReadStore {
	return &SettingsReadStore{db: dbtx, logger: logger, defaultMinNights: defaultMinNights}
}

func (s *SettingsReadStore) MinBookingNights(ctx context.Context) (int, error) {
	raw, ok, err := s.get(ctx, keyMinBookingNights)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.defaultMinNights, nil
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil || n < 1 {
		s.logger.Warn("ignoring invalid setting", "key", keyMinBookingNights, "value", raw)
		return s.defaultMinNights, nil
	}
	return n, nil
}

func (s *SettingsReadStore) get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := db.Psql.
		Select("value").
		From("settings").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build settings query", err)
	}

	var value string
	if err := s.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if pgconv.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read setting", err)
	}
	return value, true, nil
}
