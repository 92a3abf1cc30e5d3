package repository

import (
	"context"
	"log/slog"
	"time"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/infra/repository/converter"
	"houseboat-booking/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type BoatRepository struct {
	logger *slog.Logger
}

func NewBoatRepository(logger *slog.Logger) *BoatRepository {
	return &BoatRepository{logger: logger}
}

func (r *BoatRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*boat.Boat, error) {
	return r.find(ctx, dbtx, id, false)
}

func (r *BoatRepository) LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*boat.Boat, error) {
	return r.find(ctx, dbtx, id, true)
}

func (r *BoatRepository) find(ctx context.Context, dbtx db.DBTX, id uuid.UUID, forUpdate bool) (*boat.Boat, error) {
	builder := db.Psql.
		Select("id", "name", "rooms", "created_at", "updated_at").
		From("boats").
		Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build boat query", err)
	}

	var (
		boatID    uuid.UUID
		name      string
		rawRooms  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err = dbtx.QueryRow(ctx, query, args...).Scan(&boatID, &name, &rawRooms, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "boat not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load boat", err)
	}

	rooms, repaired := converter.RoomsFromJSON(rawRooms)
	if repaired {
		r.logger.Warn("boat room configuration has malformed entries", "boat_id", boatID.String())
	}

	return boat.ReconstructBoat(boatID, name, rooms, createdAt, updatedAt), nil
}
