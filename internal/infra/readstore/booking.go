package readstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/pkg/pgconv"
	"houseboat-booking/internal/usecase/queries"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingReadStore(dbtx db.DBTX, logger *slog.Logger) *BookingReadStore {
	return &BookingReadStore{db: dbtx, logger: logger}
}

var bookingViewColumns = []string{
	"b.id", "b.boat_id", "bo.name", "b.user_id", "u.name", "u.email",
	"b.check_in", "b.check_out", "b.rooms_booked", "b.pax", "b.places", "b.total_price",
	"b.status", "b.payment_id", "b.transaction_id",
	"b.customer_name", "b.customer_email", "b.customer_phone", "b.created_at", "b.updated_at",
}

func selectBookingViews() sq.SelectBuilder {
	return db.Psql.
		Select(bookingViewColumns...).
		From("bookings b").
		Join("boats bo ON bo.id = b.boat_id").
		Join("users u ON u.id = b.user_id")
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	query, args, err := selectBookingViews().Where(sq.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking view query", err)
	}

	view, err := scanBookingView(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find booking by ID", err)
	}
	return view, nil
}

// List returns bookings newest first, continuing after the keyset position
// when one is given.
func (r *BookingReadStore) List(ctx context.Context, c queries.ListCriteria) ([]*queries.BookingView, error) {
	where := sq.And{}
	if c.UserID != nil {
		where = append(where, sq.Eq{"b.user_id": *c.UserID})
	}
	if c.BoatID != nil {
		where = append(where, sq.Eq{"b.boat_id": *c.BoatID})
	}
	if c.Status != nil {
		where = append(where, sq.Eq{"b.status": c.Status.String()})
	}
	if c.AfterCreatedAt != nil && c.AfterID != nil {
		where = append(where, sq.Expr("(b.created_at, b.id) < (?, ?)", *c.AfterCreatedAt, *c.AfterID))
	}

	builder := selectBookingViews().OrderBy("b.created_at DESC", "b.id DESC")
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	if c.Limit > 0 {
		builder = builder.Limit(uint64(c.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build booking list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list bookings", err)
	}
	defer rows.Close()

	result := []*queries.BookingView{}
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan booking", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate bookings", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var (
		v             queries.BookingView
		checkIn       time.Time
		checkOut      time.Time
		rawRooms      []byte
		rawPlaces     []byte
		pax           int32
		total         pgtype.Numeric
		paymentID     pgtype.Text
		transactionID pgtype.Text
	)
	err := row.Scan(
		&v.ID, &v.BoatID, &v.BoatName, &v.UserID, &v.UserName, &v.UserEmail,
		&checkIn, &checkOut, &rawRooms, &pax, &rawPlaces, &total,
		&v.Status, &paymentID, &transactionID,
		&v.CustomerName, &v.CustomerEmail, &v.CustomerPhone, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawRooms, &v.RoomsBooked); err != nil {
		return nil, err
	}
	if len(rawPlaces) > 0 {
		if err := json.Unmarshal(rawPlaces, &v.Places); err != nil {
			return nil, err
		}
	}
	price, err := pgconv.MoneyFromNumeric(total)
	if err != nil {
		return nil, err
	}

	stay := booking.ReconstructStay(checkIn, checkOut)
	v.CheckIn = stay.CheckIn()
	v.CheckOut = stay.CheckOut()
	v.Nights = stay.Nights()
	v.Pax = int(pax)
	v.TotalPrice = price.Major()
	v.PaymentID = pgconv.StringPtrFromPgtype(paymentID)
	v.TransactionID = pgconv.StringPtrFromPgtype(transactionID)
	return &v, nil
}
