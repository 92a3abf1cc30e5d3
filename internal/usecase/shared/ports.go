package shared

import (
	"context"
	"time"

	"houseboat-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type SettingsReader interface {
	MinBookingNights(ctx context.Context) (int, error)
}

// AvailabilityInvalidator drops cached availability for a boat after its
// bookings change. Failures are logged by the implementation.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, boatID uuid.UUID)
}

// Notifier and Mailer are fire-and-forget: calls return immediately and
// delivery failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string)
}

type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to Recipient, details BookingConfirmation)
	SendBookingStatusUpdate(ctx context.Context, to Recipient, details BookingStatusUpdate)
}

type Recipient struct {
	Email string
	Name  string
}

type BookingConfirmation struct {
	BookingID  uuid.UUID
	BoatName   string
	CheckIn    time.Time
	CheckOut   time.Time
	TotalPrice float64
	Status     booking.Status
}

type BookingStatusUpdate struct {
	BookingID uuid.UUID
	BoatName  string
	Status    booking.Status
	Message   *string
}

type BookingMetrics interface {
	AdmissionAccepted()
	AdmissionRejected(reason string)
	StatusChanged(from, to booking.Status)
	ExpiredCompleted(n int)
	// PaymentConflict counts captured payments that could not be applied
	// because the rooms were no longer free.
	PaymentConflict()
}
