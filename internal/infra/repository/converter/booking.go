package converter

import (
	"encoding/json"
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingRow mirrors the bookings table.
type BookingRow struct {
	ID            uuid.UUID
	BoatID        uuid.UUID
	UserID        uuid.UUID
	CheckIn       time.Time
	CheckOut      time.Time
	RoomsBooked   []byte
	Pax           int32
	Places        []byte
	TotalPrice    pgtype.Numeric
	Status        string
	PaymentID     pgtype.Text
	TransactionID pgtype.Text
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r *BookingRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.BoatID, &r.UserID, &r.CheckIn, &r.CheckOut, &r.RoomsBooked, &r.Pax, &r.Places,
		&r.TotalPrice, &r.Status, &r.PaymentID, &r.TransactionID,
		&r.CustomerName, &r.CustomerEmail, &r.CustomerPhone, &r.CreatedAt, &r.UpdatedAt,
	}
}

var BookingColumns = []string{
	"id", "boat_id", "user_id", "check_in", "check_out", "rooms_booked", "pax", "places",
	"total_price", "status", "payment_id", "transaction_id",
	"customer_name", "customer_email", "customer_phone", "created_at", "updated_at",
}

func BookingToDomain(r BookingRow) (*booking.Booking, error) {
	var rooms []booking.RoomLine
	if err := json.Unmarshal(r.RoomsBooked, &rooms); err != nil {
		return nil, err
	}
	var places []string
	if len(r.Places) > 0 {
		if err := json.Unmarshal(r.Places, &places); err != nil {
			return nil, err
		}
	}
	total, err := pgconv.MoneyFromNumeric(r.TotalPrice)
	if err != nil {
		return nil, err
	}
	status, err := booking.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		r.ID, r.BoatID, r.UserID,
		booking.ReconstructStay(r.CheckIn, r.CheckOut),
		rooms,
		int(r.Pax),
		places,
		total,
		status,
		pgconv.StringPtrFromPgtype(r.PaymentID),
		pgconv.StringPtrFromPgtype(r.TransactionID),
		booking.Customer{Name: r.CustomerName, Email: r.CustomerEmail, Phone: r.CustomerPhone},
		r.CreatedAt, r.UpdatedAt,
	), nil
}

// BookingInsertValues returns values in BookingColumns order.
func BookingInsertValues(b *booking.Booking) ([]any, error) {
	rooms, err := json.Marshal(b.Rooms())
	if err != nil {
		return nil, err
	}
	places, err := json.Marshal(b.Places())
	if err != nil {
		return nil, err
	}
	c := b.Customer()
	return []any{
		b.ID(), b.BoatID(), b.UserID(), b.Stay().CheckIn(), b.Stay().CheckOut(), rooms, b.Pax(), places,
		pgconv.MoneyToNumeric(b.TotalPrice()), b.Status().String(), b.PaymentID(), b.TransactionID(),
		c.Name, c.Email, c.Phone, b.CreatedAt(), b.UpdatedAt(),
	}, nil
}

func OccupancyFromRow(id uuid.UUID, status string, checkIn, checkOut time.Time, rawRooms []byte) (booking.Occupancy, error) {
	var rooms []booking.RoomLine
	if err := json.Unmarshal(rawRooms, &rooms); err != nil {
		return booking.Occupancy{}, err
	}
	st, err := booking.ParseStatus(status)
	if err != nil {
		return booking.Occupancy{}, err
	}
	return booking.Occupancy{
		BookingID: id,
		Status:    st,
		Stay:      booking.ReconstructStay(checkIn, checkOut),
		Rooms:     rooms,
	}, nil
}
