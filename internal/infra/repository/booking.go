package repository

import (
	"context"
	"log/slog"
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/infra/repository/converter"
	"houseboat-booking/internal/pkg/pgconv"
	"houseboat-booking/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type BookingRepository struct {
	logger *slog.Logger
}

func NewBookingRepository(logger *slog.Logger) *BookingRepository {
	return &BookingRepository{logger: logger}
}

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	values, err := converter.BookingInsertValues(b)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode booking", err)
	}

	query, args, err := db.Psql.
		Insert("bookings").
		Columns(converter.BookingColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking insert", err)
	}

	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		switch {
		case pgconv.IsUniqueViolation(err):
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "booking already exists", err)
		case pgconv.IsForeignKeyViolation(err):
			return infra.WrapRepoErr(r.logger, infra.KindForeignKeyViolated, "booking references unknown boat or user", err)
		default:
			return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create booking", err)
		}
	}
	return nil
}

// Update persists the mutable lifecycle fields.
func (r *BookingRepository) Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	query, args, err := db.Psql.
		Update("bookings").
		SetMap(map[string]any{
			"status":         b.Status().String(),
			"payment_id":     b.PaymentID(),
			"transaction_id": b.TransactionID(),
			"updated_at":     b.UpdatedAt(),
		}).
		Where(sq.Eq{"id": b.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking update", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "payment id already in use", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

// FindByID locks the row; callers outside a transaction get a plain read.
func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, dbtx, sq.Eq{"id": id})
}

func (r *BookingRepository) FindByPaymentID(ctx context.Context, dbtx db.DBTX, paymentID string) (*booking.Booking, error) {
	return r.findOne(ctx, dbtx, sq.Eq{"payment_id": paymentID})
}

func (r *BookingRepository) findOne(ctx context.Context, dbtx db.DBTX, where sq.Eq) (*booking.Booking, error) {
	query, args, err := db.Psql.
		Select(converter.BookingColumns...).
		From("bookings").
		Where(where).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking query", err)
	}

	var row converter.BookingRow
	if err := dbtx.QueryRow(ctx, query, args...).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load booking", err)
	}

	b, err := converter.BookingToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to decode booking", err)
	}
	return b, nil
}

// overlapping selects rows whose stay intersects [checkIn, checkOut] with
// closed-range semantics.
func overlapping(stay booking.Stay) sq.And {
	return sq.And{
		sq.LtOrEq{"check_in": stay.CheckOut()},
		sq.GtOrEq{"check_out": stay.CheckIn()},
	}
}

func (r *BookingRepository) Occupancies(ctx context.Context, dbtx db.DBTX, boatID uuid.UUID, stay booking.Stay, exclude *uuid.UUID) ([]booking.Occupancy, error) {
	where := sq.And{
		sq.Eq{"boat_id": boatID},
		sq.Eq{"status": booking.StatusStrings(booking.CapacityStatuses())},
		overlapping(stay),
	}
	if exclude != nil {
		where = append(where, sq.NotEq{"id": *exclude})
	}

	query, args, err := db.Psql.
		Select("id", "status", "check_in", "check_out", "rooms_booked").
		From("bookings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build occupancy query", err)
	}

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to query occupancies", err)
	}
	defer rows.Close()

	var out []booking.Occupancy
	for rows.Next() {
		var (
			id                uuid.UUID
			status            string
			checkIn, checkOut time.Time
			rawRooms          []byte
		)
		if err := rows.Scan(&id, &status, &checkIn, &checkOut, &rawRooms); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan occupancy", err)
		}
		occ, err := converter.OccupancyFromRow(id, status, checkIn, checkOut, rawRooms)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to decode occupancy", err)
		}
		out = append(out, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate occupancies", err)
	}
	return out, nil
}

func (r *BookingRepository) HasActiveOverlap(ctx context.Context, dbtx db.DBTX, userID, boatID uuid.UUID, stay booking.Stay) (bool, error) {
	inner := db.Psql.
		Select("1").
		From("bookings").
		Where(sq.And{
			sq.Eq{"user_id": userID},
			sq.Eq{"boat_id": boatID},
			sq.Eq{"status": booking.StatusStrings(booking.ActiveStatuses())},
			overlapping(stay),
		})

	query, args, err := db.Psql.Select().Column(sq.Expr("EXISTS(?)", inner)).ToSql()
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build duplicate check", err)
	}

	var exists bool
	if err := dbtx.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to run duplicate check", err)
	}
	return exists, nil
}

// CompleteExpired moves every PAID/CONFIRMED booking whose check-out date is
// before now to COMPLETED. Rows already COMPLETED are never touched.
func (r *BookingRepository) CompleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) ([]shared.ExpiredBooking, error) {
	query, args, err := db.Psql.
		Update("bookings").
		Set("status", booking.StatusCompleted.String()).
		Set("updated_at", now).
		Where(sq.And{
			sq.Eq{"status": booking.StatusStrings(booking.ActiveStatuses())},
			sq.Lt{"check_out": now},
		}).
		Suffix("RETURNING id, boat_id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build expiry update", err)
	}

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to complete expired bookings", err)
	}
	defer rows.Close()

	var out []shared.ExpiredBooking
	for rows.Next() {
		var e shared.ExpiredBooking
		if err := rows.Scan(&e.ID, &e.BoatID); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan expired booking", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate expired bookings", err)
	}
	return out, nil
}
