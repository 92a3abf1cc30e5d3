package shared

import (
	"context"
	"time"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one connection or transaction.
type Tx interface {
	Boats() BoatRepository
	Bookings() BookingRepository
	Users() UserRepository
	DB() db.DBTX
}

type BoatRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*boat.Boat, error)
	// LockByID takes a row lock that serializes capacity decisions per boat.
	LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*boat.Boat, error)
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	FindByPaymentID(ctx context.Context, dbtx db.DBTX, paymentID string) (*booking.Booking, error)
	// Occupancies returns capacity-holding bookings on the boat whose stay overlaps.
	Occupancies(ctx context.Context, dbtx db.DBTX, boatID uuid.UUID, stay booking.Stay, exclude *uuid.UUID) ([]booking.Occupancy, error)
	HasActiveOverlap(ctx context.Context, dbtx db.DBTX, userID, boatID uuid.UUID, stay booking.Stay) (bool, error)
	CompleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) ([]ExpiredBooking, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*UserSnapshot, error)
}
