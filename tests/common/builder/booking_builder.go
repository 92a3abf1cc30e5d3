//go:build unit || e2e

package builder

import (
	"time"

	"houseboat-booking/internal/domain/booking"
	reqdto "houseboat-booking/internal/handler/dto/request"
	"houseboat-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID          uuid.UUID
	BoatID      uuid.UUID
	BoatName    string
	UserID      uuid.UUID
	UserName    string
	UserEmail   string
	CheckIn     string
	CheckOut    string
	RoomsBooked []booking.RoomLine
	Pax         int
	Places      []string
	TotalPrice  float64
	Status      booking.Status
	PaymentID   *string
	CreatedAt   time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:          uuid.New(),
		BoatID:      uuid.New(),
		BoatName:    "Pearl",
		UserID:      uuid.New(),
		UserName:    "Asha Rahman",
		UserEmail:   "asha@example.com",
		CheckIn:     "2025-06-01",
		CheckOut:    "2025-06-03",
		RoomsBooked: []booking.RoomLine{{Type: "AC Double", Quantity: 2}},
		Pax:         2,
		Places:      []string{"Tahirpur"},
		TotalPrice:  20000,
		Status:      booking.StatusPending,
		CreatedAt:   time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	rooms := make([]reqdto.RoomLineRequest, len(b.RoomsBooked))
	for i, l := range b.RoomsBooked {
		rooms[i] = reqdto.RoomLineRequest{Type: l.Type, Quantity: l.Quantity}
	}
	return reqdto.CreateBookingRequest{
		BoatID:      b.BoatID,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		RoomsBooked: rooms,
		Pax:         b.Pax,
		Places:      b.Places,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	stay, err := booking.ParseStay(b.CheckIn, b.CheckOut)
	if err != nil {
		panic(err)
	}
	return &queries.BookingView{
		ID:            b.ID,
		BoatID:        b.BoatID,
		BoatName:      b.BoatName,
		UserID:        b.UserID,
		UserName:      b.UserName,
		UserEmail:     b.UserEmail,
		CheckIn:       stay.CheckIn(),
		CheckOut:      stay.CheckOut(),
		Nights:        stay.Nights(),
		RoomsBooked:   b.RoomsBooked,
		Pax:           b.Pax,
		Places:        b.Places,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status.String(),
		PaymentID:     b.PaymentID,
		CustomerName:  b.UserName,
		CustomerEmail: b.UserEmail,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildAvailabilityView(rooms map[string]booking.Availability) *queries.BoatAvailabilityView {
	stay, err := booking.ParseStay(b.CheckIn, b.CheckOut)
	if err != nil {
		panic(err)
	}
	return &queries.BoatAvailabilityView{
		BoatID:   b.BoatID,
		BoatName: b.BoatName,
		CheckIn:  stay.CheckIn(),
		CheckOut: stay.CheckOut(),
		Nights:   stay.Nights(),
		Rooms:    rooms,
	}
}
