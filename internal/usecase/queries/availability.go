package queries

import (
	"context"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/money"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// AvailabilityCache is best effort: misses and failures both fall through
// to the database. The generation returned by a miss is passed back to Set
// so a view computed before a concurrent invalidation is not stored.
type AvailabilityCache interface {
	Get(ctx context.Context, boatID uuid.UUID, stay booking.Stay) (view *BoatAvailabilityView, generation string, ok bool)
	Set(ctx context.Context, boatID uuid.UUID, stay booking.Stay, generation string, view *BoatAvailabilityView)
}

type AvailabilityQueries interface {
	Check(ctx context.Context, boatID uuid.UUID, checkIn, checkOut string) (*BoatAvailabilityView, error)
}

type availabilityQueriesImpl struct {
	uow      shared.UnitOfWork
	cache    AvailabilityCache
	fallback money.Money
}

func NewAvailabilityQueries(uow shared.UnitOfWork, cache AvailabilityCache, fallback money.Money) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:      uow,
		cache:    cache,
		fallback: fallback,
	}
}

func (q *availabilityQueriesImpl) Check(ctx context.Context, boatID uuid.UUID, checkIn, checkOut string) (*BoatAvailabilityView, error) {
	stay, err := booking.ParseStay(checkIn, checkOut)
	if err != nil {
		return nil, errs.Invalid(err.Error())
	}

	cached, generation, ok := q.cache.Get(ctx, boatID, stay)
	if ok {
		return cached, nil
	}

	var view *BoatAvailabilityView
	err = q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Boats().FindByID(ctx, tx.DB(), boatID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBoatNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		occupancies, err := tx.Bookings().Occupancies(ctx, tx.DB(), boatID, stay, nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		view = buildAvailabilityView(b, stay, b.Inventory(q.fallback), booking.Aggregate(occupancies, stay, nil))
		return nil
	})
	if err != nil {
		return nil, err
	}

	q.cache.Set(ctx, boatID, stay, generation, view)
	return view, nil
}

func buildAvailabilityView(b *boat.Boat, stay booking.Stay, inv boat.Inventory, booked booking.BookedRooms) *BoatAvailabilityView {
	return &BoatAvailabilityView{
		BoatID:   b.ID(),
		BoatName: b.Name(),
		CheckIn:  stay.CheckIn(),
		CheckOut: stay.CheckOut(),
		Nights:   stay.Nights(),
		Rooms:    booking.ComputeAvailability(inv, booked),
	}
}
