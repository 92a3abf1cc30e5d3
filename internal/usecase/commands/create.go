package commands

import (
	"context"
	"errors"
	"fmt"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"
)

type admissionRequest struct {
	stay   booking.Stay
	rooms  []booking.RoomLine
	pax    int
	places []string
}

func (c *bookingCommandsImpl) Create(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error) {
	view, err := c.admit(ctx, in)
	if err != nil {
		c.metrics.AdmissionRejected(rejectionReason(err))
		return nil, err
	}
	c.metrics.AdmissionAccepted()
	return view, nil
}

func (c *bookingCommandsImpl) admit(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error) {
	req, err := parseAdmission(in)
	if err != nil {
		return nil, err
	}

	minNights, err := c.settings.MinBookingNights(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if req.stay.Nights() < minNights {
		return nil, &errs.MinimumStayError{MinNights: minNights}
	}

	// Advisory: repeated under the boat lock below
	err = c.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return checkDuplicate(ctx, tx, in, req.stay)
	})
	if err != nil {
		return nil, err
	}

	var created bookingContext
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bt, err := tx.Boats().LockByID(ctx, tx.DB(), in.BoatID)
		if err != nil {
			return repoErr(err, errs.ErrBoatNotFound)
		}

		occupancies, err := tx.Bookings().Occupancies(ctx, tx.DB(), in.BoatID, req.stay, nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		inv := bt.Inventory(c.fallback)
		booked := booking.Aggregate(occupancies, req.stay, nil)
		if sf := booking.CheckCapacity(inv, booked, req.rooms); sf != nil {
			return &errs.CapacityError{Kind: errs.ErrInsufficientCapacity, RoomType: sf.Type, Remaining: sf.Remaining}
		}

		if err := checkDuplicate(ctx, tx, in, req.stay); err != nil {
			return err
		}

		u, err := tx.Users().FindByID(ctx, tx.DB(), in.UserID)
		if err != nil {
			return repoErr(err, errs.ErrUserNotFound)
		}

		b := booking.NewBooking(c.clock, booking.NewBookingParams{
			BoatID:     in.BoatID,
			UserID:     in.UserID,
			Stay:       req.stay,
			Rooms:      req.rooms,
			Pax:        req.pax,
			Places:     req.places,
			TotalPrice: c.pricing.Total(inv, req.rooms, req.stay),
			Customer:   booking.Customer{Name: u.Name, Email: u.Email, Phone: u.Phone},
		})
		if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		created = bookingContext{booking: b, boat: bt, user: u}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.afterCreate(ctx, created)
	return created.view(), nil
}

func parseAdmission(in CreateBookingInput) (admissionRequest, error) {
	stay, err := booking.ParseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidStay) {
			return admissionRequest{}, errs.Invalid("check-out date must be after check-in date")
		}
		return admissionRequest{}, errs.Invalid("check-in and check-out must be dates in YYYY-MM-DD format")
	}
	rooms, err := booking.NewRoomLines(in.Rooms)
	if err != nil {
		return admissionRequest{}, errs.Invalid(err.Error())
	}
	if err := booking.ValidatePax(in.Pax); err != nil {
		return admissionRequest{}, errs.Invalid(err.Error())
	}
	places, err := booking.NewPlaces(in.Places)
	if err != nil {
		return admissionRequest{}, errs.Invalid(err.Error())
	}
	return admissionRequest{stay: stay, rooms: rooms, pax: in.Pax, places: places}, nil
}

func checkDuplicate(ctx context.Context, tx shared.Tx, in CreateBookingInput, stay booking.Stay) error {
	dup, err := tx.Bookings().HasActiveOverlap(ctx, tx.DB(), in.UserID, in.BoatID, stay)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if dup {
		return errs.ErrDuplicateActiveBooking
	}
	return nil
}

func (c *bookingCommandsImpl) afterCreate(ctx context.Context, bc bookingContext) {
	b := bc.booking
	c.cache.Invalidate(ctx, b.BoatID())
	c.notifier.Notify(ctx, b.UserID(), "Booking Created",
		fmt.Sprintf("Your booking on %s from %s to %s has been received and is awaiting payment.",
			bc.boat.Name(),
			b.Stay().CheckIn().Format(booking.DateLayout),
			b.Stay().CheckOut().Format(booking.DateLayout)))
	c.mailer.SendBookingConfirmation(ctx, bc.recipient(), shared.BookingConfirmation{
		BookingID:  b.ID(),
		BoatName:   bc.boat.Name(),
		CheckIn:    b.Stay().CheckIn(),
		CheckOut:   b.Stay().CheckOut(),
		TotalPrice: b.TotalPrice().Major(),
		Status:     b.Status(),
	})
}

func rejectionReason(err error) string {
	switch {
	case errs.Is(err, errs.ErrValidation):
		return "validation"
	case errs.Is(err, errs.ErrMinimumStay):
		return "minimum_stay"
	case errs.Is(err, errs.ErrDuplicateActiveBooking):
		return "duplicate"
	case errs.Is(err, errs.ErrInsufficientCapacity):
		return "insufficient_capacity"
	case errs.Is(err, errs.ErrBoatNotFound):
		return "boat_not_found"
	case errs.Is(err, errs.ErrUserNotFound):
		return "user_not_found"
	default:
		return "error"
	}
}
