package request

import (
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type RoomLineRequest struct {
	Type     string `json:"type" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// Dates are YYYY-MM-DD; the use case parses them so both layers agree on
// the format error.
type CreateBookingRequest struct {
	BoatID      uuid.UUID         `json:"boatId" binding:"required"`
	CheckIn     string            `json:"checkIn" binding:"required"`
	CheckOut    string            `json:"checkOut" binding:"required"`
	RoomsBooked []RoomLineRequest `json:"roomsBooked" binding:"required,min=1,dive"`
	Pax         int               `json:"pax" binding:"required,min=1,max=100"`
	Places      []string          `json:"places" binding:"required,min=1"`
}

func (r CreateBookingRequest) ToInput(userID uuid.UUID) commands.CreateBookingInput {
	rooms := make([]booking.RoomLine, len(r.RoomsBooked))
	for i, l := range r.RoomsBooked {
		rooms[i] = booking.RoomLine{Type: l.Type, Quantity: l.Quantity}
	}
	return commands.CreateBookingInput{
		UserID:   userID,
		BoatID:   r.BoatID,
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
		Rooms:    rooms,
		Pax:      r.Pax,
		Places:   r.Places,
	}
}

type UpdateStatusRequest struct {
	Status  string  `json:"status" binding:"required"`
	Message *string `json:"message" binding:"omitempty,max=1000"`
}

func (r UpdateStatusRequest) ToInput(bookingID uuid.UUID) commands.UpdateStatusInput {
	return commands.UpdateStatusInput{BookingID: bookingID, Status: r.Status, Message: r.Message}
}

type PaymentCallbackRequest struct {
	PaymentID     string  `json:"paymentId" binding:"required"`
	Status        string  `json:"status" binding:"required"`
	TransactionID *string `json:"transactionId"`
}

func (r PaymentCallbackRequest) ToInput() commands.PaymentCallbackInput {
	return commands.PaymentCallbackInput{
		PaymentID:     r.PaymentID,
		Status:        r.Status,
		TransactionID: r.TransactionID,
	}
}

type AvailabilityQuery struct {
	CheckIn  string `form:"checkIn" binding:"required"`
	CheckOut string `form:"checkOut" binding:"required"`
}

type ListQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type AdminListQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED PAID CANCELLED REFUNDED COMPLETED"`
	BoatID string `form:"boatId" binding:"omitempty,uuid"`
}
