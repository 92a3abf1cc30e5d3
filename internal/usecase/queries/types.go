package queries

import (
	"time"

	"houseboat-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// BookingView is the read model returned to customers and staff.
type BookingView struct {
	ID            uuid.UUID          `json:"id"`
	BoatID        uuid.UUID          `json:"boat_id"`
	BoatName      string             `json:"boat_name"`
	UserID        uuid.UUID          `json:"user_id"`
	UserName      string             `json:"user_name"`
	UserEmail     string             `json:"user_email"`
	CheckIn       time.Time          `json:"check_in"`
	CheckOut      time.Time          `json:"check_out"`
	Nights        int                `json:"nights"`
	RoomsBooked   []booking.RoomLine `json:"rooms_booked"`
	Pax           int                `json:"pax"`
	Places        []string           `json:"places"`
	TotalPrice    float64            `json:"total_price"`
	Status        string             `json:"status"`
	PaymentID     *string            `json:"payment_id,omitempty"`
	TransactionID *string            `json:"transaction_id,omitempty"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// BoatAvailabilityView lists every declared room type of the boat for a stay.
type BoatAvailabilityView struct {
	BoatID   uuid.UUID                       `json:"boat_id"`
	BoatName string                          `json:"boat_name"`
	CheckIn  time.Time                       `json:"check_in"`
	CheckOut time.Time                       `json:"check_out"`
	Nights   int                             `json:"nights"`
	Rooms    map[string]booking.Availability `json:"rooms"`
}

type BookingFilter struct {
	Status *booking.Status
	BoatID *uuid.UUID
}

// ListCriteria is what the read store needs for one keyset page, newest first.
type ListCriteria struct {
	UserID         *uuid.UUID
	Status         *booking.Status
	BoatID         *uuid.UUID
	AfterCreatedAt *time.Time
	AfterID        *uuid.UUID
	Limit          int
}

type BookingPage struct {
	Items []*BookingView
	Next  *Cursor
}
