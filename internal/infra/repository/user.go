package repository

import (
	"context"
	"log/slog"

	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/pkg/pgconv"
	"houseboat-booking/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct {
	logger *slog.Logger
}

func NewUserRepository(logger *slog.Logger) *UserRepository {
	return &UserRepository{logger: logger}
}

func (r *UserRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.UserSnapshot, error) {
	query, args, err := db.Psql.
		Select("id", "name", "email", "phone").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build user query", err)
	}

	var (
		snap  shared.UserSnapshot
		phone pgtype.Text
	)
	if err := dbtx.QueryRow(ctx, query, args...).Scan(&snap.ID, &snap.Name, &snap.Email, &phone); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find user by ID", err)
	}
	if phone.Valid {
		snap.Phone = phone.String
	}
	return &snap, nil
}
