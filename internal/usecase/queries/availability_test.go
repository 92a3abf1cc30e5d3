//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/money"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/pkg/ptr"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/internal/usecase/shared"
	queriesmock "houseboat-booking/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// readOnlyUoW serves one boat and a fixed set of occupancies.
type readOnlyUoW struct {
	boat        *boat.Boat
	occupancies []booking.Occupancy
	err         error
	calls       int
}

func (u *readOnlyUoW) Within(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
	return fn(ctx, readOnlyTx{u})
}

func (u *readOnlyUoW) WithDB(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
	u.calls++
	return fn(ctx, readOnlyTx{u})
}

type readOnlyTx struct{ u *readOnlyUoW }

func (t readOnlyTx) Boats() shared.BoatRepository       { return readOnlyBoats(t) }
func (t readOnlyTx) Bookings() shared.BookingRepository { return readOnlyBookings{u: t.u} }
func (t readOnlyTx) Users() shared.UserRepository       { return nil }
func (t readOnlyTx) DB() db.DBTX                        { return nil }

type readOnlyBoats struct{ u *readOnlyUoW }

func (r readOnlyBoats) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*boat.Boat, error) {
	if r.u.boat == nil || r.u.boat.ID() != id {
		return nil, infra.RepositoryError{Kind: infra.KindNotFound}
	}
	return r.u.boat, nil
}

func (r readOnlyBoats) LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*boat.Boat, error) {
	return r.FindByID(ctx, dbtx, id)
}

type readOnlyBookings struct {
	shared.BookingRepository
	u *readOnlyUoW
}

func (r readOnlyBookings) Occupancies(_ context.Context, _ db.DBTX, _ uuid.UUID, _ booking.Stay, _ *uuid.UUID) ([]booking.Occupancy, error) {
	return r.u.occupancies, r.u.err
}

func mustStay(t *testing.T, in, out string) booking.Stay {
	t.Helper()
	s, err := booking.ParseStay(in, out)
	require.NoError(t, err)
	return s
}

func TestAvailabilityQueries_Check(t *testing.T) {
	ctx := context.Background()
	pearl := boat.ReconstructBoat(uuid.New(), "Pearl", []boat.Room{
		{Type: "AC Double", Count: 3, Price: ptr.Of(money.MustFromMajor(5000))},
		{Type: "Deck", Count: 2},
	}, time.Now(), time.Now())

	t.Run("computes from the database and fills the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := queriesmock.NewMockAvailabilityCache(ctrl)
		uow := &readOnlyUoW{boat: pearl, occupancies: []booking.Occupancy{
			{BookingID: uuid.New(), Status: booking.StatusPaid, Stay: mustStay(t, "2025-05-30", "2025-06-01"), Rooms: []booking.RoomLine{{Type: "AC Double", Quantity: 2}}},
			{BookingID: uuid.New(), Status: booking.StatusConfirmed, Stay: mustStay(t, "2025-06-02", "2025-06-04"), Rooms: []booking.RoomLine{{Type: "Ghost", Quantity: 1}}},
		}}
		stay := mustStay(t, "2025-06-01", "2025-06-03")

		cache.EXPECT().Get(ctx, pearl.ID(), stay).Return(nil, "7", false)
		cache.EXPECT().Set(ctx, pearl.ID(), stay, "7", gomock.Any())

		got, err := queries.NewAvailabilityQueries(uow, cache, money.MustFromMajor(5000)).
			Check(ctx, pearl.ID(), "2025-06-01", "2025-06-03")

		require.NoError(t, err)
		assert.Equal(t, "Pearl", got.BoatName)
		assert.Equal(t, 2, got.Nights)
		want := map[string]booking.Availability{
			"AC Double": {Total: 3, Booked: 2, Available: 1},
			"Deck":      {Total: 2, Booked: 0, Available: 2},
		}
		if diff := cmp.Diff(want, got.Rooms); diff != "" {
			t.Errorf("rooms mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := queriesmock.NewMockAvailabilityCache(ctrl)
		uow := &readOnlyUoW{boat: pearl}
		cached := &queries.BoatAvailabilityView{BoatID: pearl.ID(), BoatName: "Pearl"}

		cache.EXPECT().Get(ctx, pearl.ID(), gomock.Any()).Return(cached, "3", true)

		got, err := queries.NewAvailabilityQueries(uow, cache, money.MustFromMajor(5000)).
			Check(ctx, pearl.ID(), "2025-06-01", "2025-06-03")

		require.NoError(t, err)
		assert.Same(t, cached, got)
		assert.Zero(t, uow.calls)
	})

	t.Run("unknown boat", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := queriesmock.NewMockAvailabilityCache(ctrl)
		cache.EXPECT().Get(ctx, gomock.Any(), gomock.Any()).Return(nil, "0", false)

		_, err := queries.NewAvailabilityQueries(&readOnlyUoW{boat: pearl}, cache, money.MustFromMajor(5000)).
			Check(ctx, uuid.New(), "2025-06-01", "2025-06-03")

		assert.ErrorIs(t, err, errs.ErrBoatNotFound)
	})

	t.Run("invalid dates never reach the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := queriesmock.NewMockAvailabilityCache(ctrl)

		_, err := queries.NewAvailabilityQueries(&readOnlyUoW{boat: pearl}, cache, money.MustFromMajor(5000)).
			Check(ctx, pearl.ID(), "2025-06-03", "2025-06-03")

		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("occupancy failure is not cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := queriesmock.NewMockAvailabilityCache(ctrl)
		cache.EXPECT().Get(ctx, gomock.Any(), gomock.Any()).Return(nil, "0", false)

		_, err := queries.NewAvailabilityQueries(&readOnlyUoW{boat: pearl, err: errors.New("boom")}, cache, money.MustFromMajor(5000)).
			Check(ctx, pearl.ID(), "2025-06-01", "2025-06-03")

		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})
}
