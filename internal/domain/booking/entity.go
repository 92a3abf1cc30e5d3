package booking

import (
	"time"

	"houseboat-booking/internal/domain/money"
	"houseboat-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

// Customer is the contact snapshot taken from the user record at admission.
type Customer struct {
	Name  string
	Email string
	Phone string
}

type Booking struct {
	id            uuid.UUID
	boatID        uuid.UUID
	userID        uuid.UUID
	stay          Stay
	rooms         []RoomLine
	pax           int
	places        []string
	totalPrice    money.Money
	status        Status
	paymentID     *string
	transactionID *string
	customer      Customer
	createdAt     time.Time
	updatedAt     time.Time
}

type NewBookingParams struct {
	BoatID     uuid.UUID
	UserID     uuid.UUID
	Stay       Stay
	Rooms      []RoomLine
	Pax        int
	Places     []string
	TotalPrice money.Money
	Customer   Customer
}

// NewBooking creates a PENDING booking. Inputs are expected to be validated
// by NewRoomLines, ValidatePax and NewPlaces.
func NewBooking(clk clock.Clock, p NewBookingParams) *Booking {
	now := clk.Now()
	return &Booking{
		id:         uuid.New(),
		boatID:     p.BoatID,
		userID:     p.UserID,
		stay:       p.Stay,
		rooms:      p.Rooms,
		pax:        p.Pax,
		places:     p.Places,
		totalPrice: p.TotalPrice,
		status:     StatusPending,
		customer:   p.Customer,
		createdAt:  now,
		updatedAt:  now,
	}
}

func ReconstructBooking(
	id, boatID, userID uuid.UUID,
	stay Stay,
	rooms []RoomLine,
	pax int,
	places []string,
	totalPrice money.Money,
	status Status,
	paymentID, transactionID *string,
	customer Customer,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		boatID:        boatID,
		userID:        userID,
		stay:          stay,
		rooms:         rooms,
		pax:           pax,
		places:        places,
		totalPrice:    totalPrice,
		status:        status,
		paymentID:     paymentID,
		transactionID: transactionID,
		customer:      customer,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// TransitionTo moves the booking along the lifecycle table.
func (b *Booking) TransitionTo(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !b.status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	b.status = target
	b.updatedAt = now
	return nil
}

// AssignPayment records the gateway correlation id on a pending booking.
func (b *Booking) AssignPayment(paymentID string, now time.Time) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.paymentID = &paymentID
	b.updatedAt = now
	return nil
}

// MarkPaid applies a successful payment callback and reports whether the
// booking changed. PENDING moves to PAID. A booking staff already confirmed
// keeps its status and only records the transaction. A PAID booking is left
// alone so gateway retries are harmless.
func (b *Booking) MarkPaid(transactionID *string, now time.Time) (changed bool, err error) {
	switch b.status {
	case StatusPaid:
		return false, nil
	case StatusConfirmed:
		return b.RecordTransaction(transactionID, now), nil
	}
	if err := b.TransitionTo(StatusPaid, now); err != nil {
		return false, err
	}
	b.RecordTransaction(transactionID, now)
	return true, nil
}

// RecordTransaction keeps the first gateway transaction id reported for the
// booking. Later ids are ignored.
func (b *Booking) RecordTransaction(transactionID *string, now time.Time) bool {
	if transactionID == nil || b.transactionID != nil {
		return false
	}
	b.transactionID = transactionID
	b.updatedAt = now
	return true
}

func (b *Booking) Occupancy() Occupancy {
	return Occupancy{BookingID: b.id, Status: b.status, Stay: b.stay, Rooms: b.rooms}
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) BoatID() uuid.UUID       { return b.boatID }
func (b *Booking) UserID() uuid.UUID       { return b.userID }
func (b *Booking) Stay() Stay              { return b.stay }
func (b *Booking) Rooms() []RoomLine       { return b.rooms }
func (b *Booking) Pax() int                { return b.pax }
func (b *Booking) Places() []string        { return b.places }
func (b *Booking) TotalPrice() money.Money { return b.totalPrice }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) PaymentID() *string      { return b.paymentID }
func (b *Booking) TransactionID() *string  { return b.transactionID }
func (b *Booking) Customer() Customer      { return b.customer }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }
