package response

import (
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/usecase/commands"
	"houseboat-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID            uuid.UUID          `json:"id"`
	BoatID        uuid.UUID          `json:"boatId"`
	BoatName      string             `json:"boatName"`
	UserID        uuid.UUID          `json:"userId"`
	UserName      string             `json:"userName"`
	UserEmail     string             `json:"userEmail"`
	CheckIn       string             `json:"checkIn" copier:"-"`
	CheckOut      string             `json:"checkOut" copier:"-"`
	Nights        int                `json:"nights"`
	RoomsBooked   []booking.RoomLine `json:"roomsBooked"`
	Pax           int                `json:"pax"`
	Places        []string           `json:"places"`
	TotalPrice    float64            `json:"totalPrice"`
	Status        string             `json:"status"`
	PaymentID     *string            `json:"paymentId,omitempty"`
	TransactionID *string            `json:"transactionId,omitempty"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	CustomerPhone string             `json:"customerPhone"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var res BookingResponse
	// Field names line up one to one; copier only fails on nil input
	_ = copier.Copy(&res, v)
	res.CheckIn = v.CheckIn.Format(booking.DateLayout)
	res.CheckOut = v.CheckOut.Format(booking.DateLayout)
	return &res
}

type BookingPageResponse struct {
	Items      []*BookingResponse `json:"items"`
	NextCursor *string            `json:"nextCursor,omitempty"`
}

func FromBookingPage(p *queries.BookingPage) *BookingPageResponse {
	res := &BookingPageResponse{Items: make([]*BookingResponse, len(p.Items))}
	for i, v := range p.Items {
		res.Items[i] = FromBookingView(v)
	}
	if p.Next != nil {
		res.NextCursor = &p.Next.After
	}
	return res
}

type AvailabilityResponse struct {
	BoatID   uuid.UUID                       `json:"boatId"`
	BoatName string                          `json:"boatName"`
	CheckIn  string                          `json:"checkIn" copier:"-"`
	CheckOut string                          `json:"checkOut" copier:"-"`
	Nights   int                             `json:"nights"`
	Rooms    map[string]booking.Availability `json:"rooms"`
}

func FromAvailabilityView(v *queries.BoatAvailabilityView) *AvailabilityResponse {
	var res AvailabilityResponse
	_ = copier.Copy(&res, v)
	res.CheckIn = v.CheckIn.Format(booking.DateLayout)
	res.CheckOut = v.CheckOut.Format(booking.DateLayout)
	return &res
}

type PaymentInitiationResponse struct {
	BookingID uuid.UUID `json:"bookingId"`
	PaymentID string    `json:"paymentId"`
	Amount    float64   `json:"amount"`
}

func FromPaymentInitiation(p *commands.PaymentInitiation) *PaymentInitiationResponse {
	var res PaymentInitiationResponse
	_ = copier.Copy(&res, p)
	return &res
}

type AvailabilityCheckResponse struct {
	Available bool `json:"available"`
}
