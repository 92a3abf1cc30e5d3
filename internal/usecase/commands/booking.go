package commands

import (
	"context"
	"log/slog"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/money"
	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/pkg/clock"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	UserID   uuid.UUID
	BoatID   uuid.UUID
	CheckIn  string
	CheckOut string
	Rooms    []booking.RoomLine
	Pax      int
	Places   []string
}

type UpdateStatusInput struct {
	BookingID uuid.UUID
	Status    string
	Message   *string
}

type PaymentCallbackInput struct {
	PaymentID     string
	Status        string
	TransactionID *string
}

type PaymentInitiation struct {
	BookingID uuid.UUID
	PaymentID string
	Amount    float64
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error)
	// ValidateAvailability re-checks a booking's rooms against everything
	// else that holds capacity on its dates.
	ValidateAvailability(ctx context.Context, principal user.Principal, bookingID uuid.UUID) error
	InitiatePayment(ctx context.Context, userID, bookingID uuid.UUID) (*PaymentInitiation, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*queries.BookingView, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*queries.BookingView, error)
	HandlePaymentCallback(ctx context.Context, in PaymentCallbackInput) error
	AutoCompleteExpired(ctx context.Context) (int, error)
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	settings shared.SettingsReader
	pricing  booking.PriceCalculator
	notifier shared.Notifier
	mailer   shared.Mailer
	cache    shared.AvailabilityInvalidator
	metrics  shared.BookingMetrics
	clock    clock.Clock
	fallback money.Money
	logger   *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	settings shared.SettingsReader,
	pricing booking.PriceCalculator,
	notifier shared.Notifier,
	mailer shared.Mailer,
	cache shared.AvailabilityInvalidator,
	metrics shared.BookingMetrics,
	clk clock.Clock,
	fallback money.Money,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		settings: settings,
		pricing:  pricing,
		notifier: notifier,
		mailer:   mailer,
		cache:    cache,
		metrics:  metrics,
		clock:    clk,
		fallback: fallback,
		logger:   logger,
	}
}

// bookingContext is what notifications and the returned view need besides
// the booking itself.
type bookingContext struct {
	booking *booking.Booking
	boat    *boat.Boat
	user    *shared.UserSnapshot
}

func (bc bookingContext) view() *queries.BookingView {
	b := bc.booking
	stay := b.Stay()
	customer := b.Customer()
	return &queries.BookingView{
		ID:            b.ID(),
		BoatID:        b.BoatID(),
		BoatName:      bc.boat.Name(),
		UserID:        b.UserID(),
		UserName:      bc.user.Name,
		UserEmail:     bc.user.Email,
		CheckIn:       stay.CheckIn(),
		CheckOut:      stay.CheckOut(),
		Nights:        stay.Nights(),
		RoomsBooked:   b.Rooms(),
		Pax:           b.Pax(),
		Places:        b.Places(),
		TotalPrice:    b.TotalPrice().Major(),
		Status:        b.Status().String(),
		PaymentID:     b.PaymentID(),
		TransactionID: b.TransactionID(),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
}

func (bc bookingContext) recipient() shared.Recipient {
	c := bc.booking.Customer()
	return shared.Recipient{Email: c.Email, Name: c.Name}
}

func repoErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return notFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

// loadOwnedBooking hides bookings of other users behind BookingNotFound.
func loadOwnedBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, principal user.Principal) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByID(ctx, tx.DB(), bookingID)
	if err != nil {
		return nil, repoErr(err, errs.ErrBookingNotFound)
	}
	if !b.IsOwnedBy(principal.UserID) && !principal.IsStaff() {
		return nil, errs.ErrBookingNotFound
	}
	return b, nil
}

func loadContext(ctx context.Context, tx shared.Tx, b *booking.Booking, lockBoat bool) (bookingContext, error) {
	var (
		bt  *boat.Boat
		err error
	)
	if lockBoat {
		bt, err = tx.Boats().LockByID(ctx, tx.DB(), b.BoatID())
	} else {
		bt, err = tx.Boats().FindByID(ctx, tx.DB(), b.BoatID())
	}
	if err != nil {
		return bookingContext{}, repoErr(err, errs.ErrBoatNotFound)
	}

	u, err := tx.Users().FindByID(ctx, tx.DB(), b.UserID())
	if err != nil {
		return bookingContext{}, repoErr(err, errs.ErrUserNotFound)
	}
	return bookingContext{booking: b, boat: bt, user: u}, nil
}

// recheckCapacity verifies the booking still fits next to every other
// capacity-holding booking on its dates.
func (c *bookingCommandsImpl) recheckCapacity(ctx context.Context, tx shared.Tx, b *booking.Booking, bt *boat.Boat) error {
	self := b.ID()
	occupancies, err := tx.Bookings().Occupancies(ctx, tx.DB(), b.BoatID(), b.Stay(), &self)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	booked := booking.Aggregate(occupancies, b.Stay(), &self)
	if sf := booking.CheckCapacity(bt.Inventory(c.fallback), booked, b.Rooms()); sf != nil {
		return &errs.CapacityError{Kind: errs.ErrCapacityNoLongerAvail, RoomType: sf.Type, Remaining: sf.Remaining}
	}
	return nil
}

func transitionErr(from, to booking.Status) error {
	return &errs.TransitionError{From: from.String(), To: to.String()}
}
