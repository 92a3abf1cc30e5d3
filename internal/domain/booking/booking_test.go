//go:build unit

package booking_test

import (
	"testing"
	"time"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/domain/money"
	"houseboat-booking/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stay(t *testing.T, in, out string) booking.Stay {
	t.Helper()
	s, err := booking.ParseStay(in, out)
	require.NoError(t, err)
	return s
}

func pearl() boat.Inventory {
	deluxe := money.MustFromMajor(8000)
	double := money.MustFromMajor(5000)
	return boat.ReconstructBoat(uuid.New(), "Pearl", []boat.Room{
		{Type: "AC Double", Count: 2, Price: &double},
		{Type: "Deluxe", Count: 1, Price: &deluxe},
		{Type: "Deck", Count: 3},
	}, time.Time{}, time.Time{}).Inventory(money.MustFromMajor(5000))
}

func TestStay(t *testing.T) {
	t.Run("parses dates and counts nights", func(t *testing.T) {
		s := stay(t, "2025-06-01", "2025-06-04")
		assert.Equal(t, 3, s.Nights())
		assert.Equal(t, 4, s.Days())
		assert.Equal(t, "2025-06-01:2025-06-04", s.Key())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := []struct {
			name, in, out string
			errIs         error
		}{
			{name: "same day", in: "2025-06-01", out: "2025-06-01", errIs: booking.ErrInvalidStay},
			{name: "reversed", in: "2025-06-03", out: "2025-06-01", errIs: booking.ErrInvalidStay},
			{name: "bad check-in", in: "06/01/2025", out: "2025-06-03", errIs: booking.ErrInvalidDate},
			{name: "bad check-out", in: "2025-06-01", out: "", errIs: booking.ErrInvalidDate},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := booking.ParseStay(tc.in, tc.out)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("overlap is inclusive of both ends", func(t *testing.T) {
		base := stay(t, "2025-06-03", "2025-06-05")
		cases := []struct {
			name, in, out string
			want          bool
		}{
			{name: "ends on check-in day", in: "2025-06-01", out: "2025-06-03", want: true},
			{name: "starts on check-out day", in: "2025-06-05", out: "2025-06-07", want: true},
			{name: "inside", in: "2025-06-03", out: "2025-06-04", want: true},
			{name: "covers", in: "2025-06-01", out: "2025-06-10", want: true},
			{name: "day before", in: "2025-06-01", out: "2025-06-02", want: false},
			{name: "day after", in: "2025-06-06", out: "2025-06-08", want: false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				other := stay(t, tc.in, tc.out)
				assert.Equal(t, tc.want, base.Overlaps(other))
				assert.Equal(t, tc.want, other.Overlaps(base))
			})
		}
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		s, err := booking.NewStay(
			time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 1, s.Nights())
	})
}

func TestAggregateAndCapacity(t *testing.T) {
	request := stay(t, "2025-06-01", "2025-06-03")
	self := uuid.New()
	occupancies := []booking.Occupancy{
		{BookingID: uuid.New(), Status: booking.StatusPaid, Stay: stay(t, "2025-06-02", "2025-06-05"), Rooms: []booking.RoomLine{{Type: "AC Double", Quantity: 1}}},
		{BookingID: uuid.New(), Status: booking.StatusCompleted, Stay: stay(t, "2025-05-30", "2025-06-01"), Rooms: []booking.RoomLine{{Type: "Deck", Quantity: 2}}},
		{BookingID: uuid.New(), Status: booking.StatusPending, Stay: request, Rooms: []booking.RoomLine{{Type: "AC Double", Quantity: 2}}},
		{BookingID: uuid.New(), Status: booking.StatusCancelled, Stay: request, Rooms: []booking.RoomLine{{Type: "Deluxe", Quantity: 1}}},
		{BookingID: uuid.New(), Status: booking.StatusConfirmed, Stay: stay(t, "2025-06-10", "2025-06-12"), Rooms: []booking.RoomLine{{Type: "Deluxe", Quantity: 1}}},
		{BookingID: self, Status: booking.StatusConfirmed, Stay: request, Rooms: []booking.RoomLine{{Type: "Deluxe", Quantity: 1}}},
	}

	t.Run("aggregate counts capacity-holding overlaps only", func(t *testing.T) {
		booked := booking.Aggregate(occupancies, request, nil)
		assert.Equal(t, booking.BookedRooms{"AC Double": 1, "Deck": 2, "Deluxe": 1}, booked)
	})

	t.Run("aggregate skips the excluded booking", func(t *testing.T) {
		booked := booking.Aggregate(occupancies, request, &self)
		assert.Equal(t, 0, booked.Of("Deluxe"))
	})

	t.Run("availability floors at zero", func(t *testing.T) {
		got := booking.ComputeAvailability(pearl(), booking.BookedRooms{"AC Double": 3, "Deck": 1})
		assert.Equal(t, map[string]booking.Availability{
			"AC Double": {Total: 2, Booked: 3, Available: 0},
			"Deluxe":    {Total: 1, Booked: 0, Available: 1},
			"Deck":      {Total: 3, Booked: 1, Available: 2},
		}, got)
	})

	t.Run("capacity check", func(t *testing.T) {
		booked := booking.BookedRooms{"AC Double": 1}
		cases := []struct {
			name  string
			lines []booking.RoomLine
			want  *booking.Shortfall
		}{
			{name: "exact fit", lines: []booking.RoomLine{{Type: "AC Double", Quantity: 1}}},
			{name: "one over", lines: []booking.RoomLine{{Type: "AC Double", Quantity: 2}}, want: &booking.Shortfall{Type: "AC Double", Remaining: 1}},
			{name: "undeclared type", lines: []booking.RoomLine{{Type: "Suite", Quantity: 1}}, want: &booking.Shortfall{Type: "Suite", Remaining: 0}},
			{
				name:  "first failing line is reported",
				lines: []booking.RoomLine{{Type: "Deck", Quantity: 3}, {Type: "Deluxe", Quantity: 2}, {Type: "AC Double", Quantity: 5}},
				want:  &booking.Shortfall{Type: "Deluxe", Remaining: 1},
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, booking.CheckCapacity(pearl(), booked, tc.lines))
			})
		}
	})
}

func TestRoomLinesAndPricing(t *testing.T) {
	t.Run("repeated types are merged", func(t *testing.T) {
		lines, err := booking.NewRoomLines([]booking.RoomLine{
			{Type: "AC Double", Quantity: 1},
			{Type: " Deck ", Quantity: 2},
			{Type: "AC Double", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, []booking.RoomLine{{Type: "AC Double", Quantity: 2}, {Type: "Deck", Quantity: 2}}, lines)
	})

	t.Run("invalid lines", func(t *testing.T) {
		_, err := booking.NewRoomLines(nil)
		assert.ErrorIs(t, err, booking.ErrNoRooms)
		_, err = booking.NewRoomLines([]booking.RoomLine{{Type: "Deck", Quantity: 0}})
		assert.ErrorIs(t, err, booking.ErrInvalidRoomLine)
		_, err = booking.NewRoomLines([]booking.RoomLine{{Type: "  ", Quantity: 1}})
		assert.ErrorIs(t, err, booking.ErrInvalidRoomLine)
	})

	t.Run("pax and places", func(t *testing.T) {
		assert.NoError(t, booking.ValidatePax(1))
		assert.NoError(t, booking.ValidatePax(100))
		assert.ErrorIs(t, booking.ValidatePax(0), booking.ErrInvalidPax)
		assert.ErrorIs(t, booking.ValidatePax(101), booking.ErrInvalidPax)

		places, err := booking.NewPlaces([]string{" Tahirpur ", "", "Tanguar Haor"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Tahirpur", "Tanguar Haor"}, places)
		_, err = booking.NewPlaces([]string{" "})
		assert.ErrorIs(t, err, booking.ErrNoPlaces)
	})

	t.Run("nightly price uses fallback for unpriced rooms", func(t *testing.T) {
		total := booking.NewNightlyPriceCalculator().Total(pearl(), []booking.RoomLine{
			{Type: "AC Double", Quantity: 2},
			{Type: "Deluxe", Quantity: 1},
			{Type: "Deck", Quantity: 1},
		}, stay(t, "2025-06-01", "2025-06-03"))
		// (2*5000 + 8000 + 5000) * 2 nights
		assert.Equal(t, 46000.0, total.Major())
	})
}

func TestLifecycle(t *testing.T) {
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	newBooking := func(status booking.Status) *booking.Booking {
		return booking.ReconstructBooking(uuid.New(), uuid.New(), uuid.New(),
			booking.ReconstructStay(now, now.AddDate(0, 0, 2)),
			[]booking.RoomLine{{Type: "Deck", Quantity: 1}}, 2, []string{"Tahirpur"},
			money.MustFromMajor(10000), status, nil, nil, booking.Customer{}, now, now)
	}

	t.Run("new bookings start pending", func(t *testing.T) {
		b := booking.NewBooking(clock.NewFixedClock(now), booking.NewBookingParams{UserID: uuid.New()})
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, now, b.CreatedAt())
	})

	t.Run("transition table", func(t *testing.T) {
		all := []booking.Status{
			booking.StatusPending, booking.StatusConfirmed, booking.StatusPaid,
			booking.StatusCancelled, booking.StatusRefunded, booking.StatusCompleted,
		}
		allowed := map[booking.Status][]booking.Status{
			booking.StatusPending:   {booking.StatusConfirmed, booking.StatusPaid, booking.StatusCancelled},
			booking.StatusConfirmed: {booking.StatusRefunded, booking.StatusCompleted, booking.StatusCancelled},
			booking.StatusPaid:      {booking.StatusRefunded, booking.StatusCompleted, booking.StatusCancelled},
		}
		for _, from := range all {
			for _, to := range all {
				want := false
				for _, a := range allowed[from] {
					want = want || a == to
				}
				b := newBooking(from)
				err := b.TransitionTo(to, now.Add(time.Hour))
				if want {
					assert.NoError(t, err, "%s -> %s", from, to)
					assert.Equal(t, to, b.Status())
					assert.Equal(t, now.Add(time.Hour), b.UpdatedAt())
				} else {
					assert.ErrorIs(t, err, booking.ErrInvalidTransition, "%s -> %s", from, to)
					assert.Equal(t, from, b.Status())
				}
			}
		}
	})

	t.Run("unknown target status", func(t *testing.T) {
		assert.ErrorIs(t, newBooking(booking.StatusPending).TransitionTo("ARCHIVED", now), booking.ErrInvalidStatus)
		_, err := booking.ParseStatus("paid")
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	})

	t.Run("payment assignment requires pending", func(t *testing.T) {
		b := newBooking(booking.StatusPending)
		require.NoError(t, b.AssignPayment("pay_1", now))
		require.NotNil(t, b.PaymentID())
		assert.Equal(t, "pay_1", *b.PaymentID())

		assert.ErrorIs(t, newBooking(booking.StatusConfirmed).AssignPayment("pay_2", now), booking.ErrNotPending)
	})

	t.Run("mark paid is idempotent", func(t *testing.T) {
		b := newBooking(booking.StatusPending)
		txn := "txn_1"
		changed, err := b.MarkPaid(&txn, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, booking.StatusPaid, b.Status())
		assert.Equal(t, &txn, b.TransactionID())

		changed, err = b.MarkPaid(nil, now)
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = newBooking(booking.StatusCancelled).MarkPaid(nil, now)
		assert.ErrorIs(t, err, booking.ErrInvalidTransition)
	})

	t.Run("mark paid on a confirmed booking only records the transaction", func(t *testing.T) {
		b := newBooking(booking.StatusConfirmed)
		txn := "txn_7"

		changed, err := b.MarkPaid(&txn, now.Add(time.Hour))

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, "txn_7", *b.TransactionID())
		assert.Equal(t, now.Add(time.Hour), b.UpdatedAt())

		changed, err = b.MarkPaid(&txn, now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("first transaction id wins", func(t *testing.T) {
		b := newBooking(booking.StatusPending)
		first, second := "txn_a", "txn_b"

		assert.False(t, b.RecordTransaction(nil, now))
		assert.True(t, b.RecordTransaction(&first, now))
		assert.False(t, b.RecordTransaction(&second, now))
		assert.Equal(t, "txn_a", *b.TransactionID())
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("capacity statuses", func(t *testing.T) {
		for _, s := range booking.CapacityStatuses() {
			assert.True(t, s.ConsumesCapacity(), s)
		}
		assert.False(t, booking.StatusPending.ConsumesCapacity())
		assert.False(t, booking.StatusCancelled.ConsumesCapacity())
		assert.False(t, booking.StatusRefunded.ConsumesCapacity())
		assert.True(t, booking.StatusCompleted.IsTerminal())
		assert.Equal(t, []string{"PAID", "CONFIRMED"}, booking.StatusStrings(booking.ActiveStatuses()))
	})
}
