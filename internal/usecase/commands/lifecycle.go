package commands

import (
	"context"
	"fmt"
	"strings"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

type statusChange struct {
	bookingContext
	from booking.Status
}

// UpdateStatus is the staff override. It follows the transition table, and
// promoting a PENDING booking into a capacity-holding status re-checks
// capacity under the boat lock.
func (c *bookingCommandsImpl) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*queries.BookingView, error) {
	target, err := booking.ParseStatus(in.Status)
	if err != nil {
		return nil, errs.Invalid(fmt.Sprintf("unknown booking status %q", in.Status))
	}

	var change statusChange
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, tx.DB(), in.BookingID)
		if err != nil {
			return repoErr(err, errs.ErrBookingNotFound)
		}
		from := b.Status()
		if !from.CanTransitionTo(target) {
			return transitionErr(from, target)
		}

		bc, err := loadContext(ctx, tx, b, true)
		if err != nil {
			return err
		}
		if !from.ConsumesCapacity() && target.ConsumesCapacity() {
			if err := c.recheckCapacity(ctx, tx, b, bc.boat); err != nil {
				return err
			}
		}

		if err := b.TransitionTo(target, c.clock.Now()); err != nil {
			return transitionErr(from, target)
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
			return repoErr(err, errs.ErrBookingNotFound)
		}
		change = statusChange{bookingContext: bc, from: from}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.afterStatusChange(ctx, change, "Booking Status Updated",
		fmt.Sprintf("Your booking status has been updated to %s.", target), in.Message)
	return change.view(), nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*queries.BookingView, error) {
	principal := user.Principal{UserID: userID, Role: user.RoleCustomer}

	var change statusChange
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadOwnedBooking(ctx, tx, bookingID, principal)
		if err != nil {
			return err
		}
		from := b.Status()
		if err := b.TransitionTo(booking.StatusCancelled, c.clock.Now()); err != nil {
			return transitionErr(from, booking.StatusCancelled)
		}

		bc, err := loadContext(ctx, tx, b, false)
		if err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
			return repoErr(err, errs.ErrBookingNotFound)
		}
		change = statusChange{bookingContext: bc, from: from}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.afterStatusChange(ctx, change, "Booking Cancelled", "Your booking has been cancelled.", nil)
	return change.view(), nil
}

// HandlePaymentCallback applies the gateway's verdict. Repeated success
// callbacks are no-ops. A success for a PENDING booking whose rooms were
// taken after the payment started does not make it PAID: the transaction is
// recorded, the booking stays PENDING for staff to refund and cancel, and
// the gateway still gets an acknowledgement.
func (c *bookingCommandsImpl) HandlePaymentCallback(ctx context.Context, in PaymentCallbackInput) error {
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status != PaymentStatusSuccess && status != PaymentStatusFailed {
		return errs.Invalid(fmt.Sprintf("unknown payment status %q", in.Status))
	}
	if strings.TrimSpace(in.PaymentID) == "" {
		return errs.Invalid("paymentId is required")
	}

	var (
		change   statusChange
		paid     bool
		conflict error
		failed   *booking.Booking
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByPaymentID(ctx, tx.DB(), in.PaymentID)
		if err != nil {
			return repoErr(err, errs.ErrBookingNotFound)
		}
		if status == PaymentStatusFailed {
			failed = b
			return nil
		}

		from := b.Status()
		if from == booking.StatusPaid {
			return nil
		}
		bc, err := loadContext(ctx, tx, b, true)
		if err != nil {
			return err
		}
		change = statusChange{bookingContext: bc, from: from}

		if from == booking.StatusPending {
			if err := c.recheckCapacity(ctx, tx, b, bc.boat); err != nil {
				if !errs.Is(err, errs.ErrCapacityNoLongerAvail) {
					return err
				}
				if !b.RecordTransaction(in.TransactionID, c.clock.Now()) && in.TransactionID != nil {
					// same transaction already reported
					return nil
				}
				conflict = err
				return c.save(ctx, tx, b)
			}
		}

		changed, err := b.MarkPaid(in.TransactionID, c.clock.Now())
		if err != nil {
			return transitionErr(from, booking.StatusPaid)
		}
		if !changed {
			return nil
		}
		paid = b.Status() != from
		return c.save(ctx, tx, b)
	})
	if err != nil {
		return err
	}

	switch {
	case failed != nil:
		c.notifier.Notify(ctx, failed.UserID(), "Payment Failed",
			"Your payment could not be completed. Please try again.")
	case conflict != nil:
		b := change.booking
		c.logger.Error("payment captured but rooms are no longer available",
			"booking_id", b.ID().String(),
			"boat_id", b.BoatID().String(),
			"payment_id", in.PaymentID,
			"error", conflict.Error())
		c.metrics.PaymentConflict()
		c.notifier.Notify(ctx, b.UserID(), "Payment Received, Rooms Unavailable",
			"Your payment was received but the rooms were booked by someone else in the meantime. Our staff will refund you.")
	case paid:
		c.afterStatusChange(ctx, change, "Payment Successful",
			"Your payment was received and your booking is confirmed.", nil)
	}
	return nil
}

func (c *bookingCommandsImpl) save(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
		return repoErr(err, errs.ErrBookingNotFound)
	}
	return nil
}

// AutoCompleteExpired completes every PAID/CONFIRMED booking whose check-out
// date has passed. Running it again changes nothing.
func (c *bookingCommandsImpl) AutoCompleteExpired(ctx context.Context) (int, error) {
	var expired []shared.ExpiredBooking
	err := c.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		expired, err = tx.Bookings().CompleteExpired(ctx, tx.DB(), c.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(expired) == 0 {
		return 0, nil
	}

	c.metrics.ExpiredCompleted(len(expired))
	boats := make(map[uuid.UUID]struct{}, len(expired))
	for _, e := range expired {
		if _, seen := boats[e.BoatID]; seen {
			continue
		}
		boats[e.BoatID] = struct{}{}
		c.cache.Invalidate(ctx, e.BoatID)
	}
	c.logger.Info("completed expired bookings", "count", len(expired))
	return len(expired), nil
}

func (c *bookingCommandsImpl) afterStatusChange(ctx context.Context, change statusChange, title, message string, note *string) {
	b := change.booking
	c.metrics.StatusChanged(change.from, b.Status())
	c.cache.Invalidate(ctx, b.BoatID())
	c.notifier.Notify(ctx, b.UserID(), title, message)
	c.mailer.SendBookingStatusUpdate(ctx, change.recipient(), shared.BookingStatusUpdate{
		BookingID: b.ID(),
		BoatName:  change.boat.Name(),
		Status:    b.Status(),
		Message:   note,
	})
}
