package commands

import (
	"context"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

func (c *bookingCommandsImpl) ValidateAvailability(ctx context.Context, principal user.Principal, bookingID uuid.UUID) error {
	return c.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadOwnedBooking(ctx, tx, bookingID, principal)
		if err != nil {
			return err
		}
		bt, err := tx.Boats().FindByID(ctx, tx.DB(), b.BoatID())
		if err != nil {
			return repoErr(err, errs.ErrBoatNotFound)
		}
		return c.recheckCapacity(ctx, tx, b, bt)
	})
}

// InitiatePayment runs the capacity gate and records the correlation id the
// gateway will echo back in its callback. The id is assigned once per
// booking.
func (c *bookingCommandsImpl) InitiatePayment(ctx context.Context, userID, bookingID uuid.UUID) (*PaymentInitiation, error) {
	principal := user.Principal{UserID: userID, Role: user.RoleCustomer}

	var result *PaymentInitiation
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadOwnedBooking(ctx, tx, bookingID, principal)
		if err != nil {
			return err
		}
		if b.Status() != booking.StatusPending {
			return errs.ErrNotEligibleForPayment
		}

		bt, err := tx.Boats().LockByID(ctx, tx.DB(), b.BoatID())
		if err != nil {
			return repoErr(err, errs.ErrBoatNotFound)
		}
		if err := c.recheckCapacity(ctx, tx, b, bt); err != nil {
			return err
		}

		// a retried checkout keeps the id an earlier gateway session may still call back with
		var paymentID string
		if existing := b.PaymentID(); existing != nil {
			paymentID = *existing
		} else {
			paymentID = "pay_" + uuid.NewString()
			if err := b.AssignPayment(paymentID, c.clock.Now()); err != nil {
				return errs.ErrNotEligibleForPayment
			}
			if err := c.save(ctx, tx, b); err != nil {
				return err
			}
		}

		result = &PaymentInitiation{
			BookingID: b.ID(),
			PaymentID: paymentID,
			Amount:    b.TotalPrice().Major(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
