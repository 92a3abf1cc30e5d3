//go:build unit

package commands_test

import (
	"context"
	"maps"
	"sync"
	"time"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the Postgres unit of work. Within
// runs one transaction at a time, which mirrors the boat row lock, and
// restores the booking table when fn fails.
type memStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex

	boats    map[uuid.UUID]*boat.Boat
	users    map[uuid.UUID]*shared.UserSnapshot
	bookings map[uuid.UUID]*booking.Booking

	dbErr error
}

func newMemStore() *memStore {
	return &memStore{
		boats:    map[uuid.UUID]*boat.Boat{},
		users:    map[uuid.UUID]*shared.UserSnapshot{},
		bookings: map[uuid.UUID]*booking.Booking{},
	}
}

func (s *memStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.dataMu.Lock()
	snapshot := maps.Clone(s.bookings)
	s.dataMu.Unlock()

	if err := fn(ctx, memTx{s}); err != nil {
		s.dataMu.Lock()
		s.bookings = snapshot
		s.dataMu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, memTx{s})
}

func (s *memStore) addBoat(b *boat.Boat) {
	s.boats[b.ID()] = b
}

func (s *memStore) addUser(u *shared.UserSnapshot) {
	s.users[u.ID] = u
}

func (s *memStore) addBooking(b *booking.Booking) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.bookings[b.ID()] = cloneBooking(b, b.Status())
}

func (s *memStore) booking(id uuid.UUID) *booking.Booking {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return cloneBooking(b, b.Status())
	}
	return nil
}

func (s *memStore) count() int {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return len(s.bookings)
}

func cloneBooking(b *booking.Booking, status booking.Status) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.BoatID(), b.UserID(), b.Stay(), b.Rooms(), b.Pax(), b.Places(),
		b.TotalPrice(), status, b.PaymentID(), b.TransactionID(), b.Customer(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func notFound() error {
	return infra.RepositoryError{Kind: infra.KindNotFound}
}

type memTx struct{ s *memStore }

func (t memTx) Boats() shared.BoatRepository       { return memBoats(t) }
func (t memTx) Bookings() shared.BookingRepository { return memBookings(t) }
func (t memTx) Users() shared.UserRepository       { return memUsers(t) }
func (t memTx) DB() db.DBTX                        { return nil }

type memBoats struct{ s *memStore }

func (r memBoats) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*boat.Boat, error) {
	if b, ok := r.s.boats[id]; ok {
		return b, nil
	}
	return nil, notFound()
}

func (r memBoats) LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*boat.Boat, error) {
	return r.FindByID(ctx, dbtx, id)
}

type memUsers struct{ s *memStore }

func (r memUsers) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.UserSnapshot, error) {
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, notFound()
}

type memBookings struct{ s *memStore }

func (r memBookings) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if r.s.dbErr != nil {
		return r.s.dbErr
	}
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.bookings[b.ID()] = cloneBooking(b, b.Status())
	return nil
}

func (r memBookings) Update(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if _, ok := r.s.bookings[b.ID()]; !ok {
		return notFound()
	}
	r.s.bookings[b.ID()] = cloneBooking(b, b.Status())
	return nil
}

func (r memBookings) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	if b := r.s.booking(id); b != nil {
		return b, nil
	}
	return nil, notFound()
}

func (r memBookings) FindByPaymentID(_ context.Context, _ db.DBTX, paymentID string) (*booking.Booking, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, b := range r.s.bookings {
		if b.PaymentID() != nil && *b.PaymentID() == paymentID {
			return cloneBooking(b, b.Status()), nil
		}
	}
	return nil, notFound()
}

func (r memBookings) Occupancies(_ context.Context, _ db.DBTX, boatID uuid.UUID, stay booking.Stay, exclude *uuid.UUID) ([]booking.Occupancy, error) {
	if r.s.dbErr != nil {
		return nil, r.s.dbErr
	}
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []booking.Occupancy
	for _, b := range r.s.bookings {
		if b.BoatID() != boatID || !b.Status().ConsumesCapacity() || !b.Stay().Overlaps(stay) {
			continue
		}
		if exclude != nil && b.ID() == *exclude {
			continue
		}
		out = append(out, b.Occupancy())
	}
	return out, nil
}

func (r memBookings) HasActiveOverlap(_ context.Context, _ db.DBTX, userID, boatID uuid.UUID, stay booking.Stay) (bool, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, b := range r.s.bookings {
		active := b.Status() == booking.StatusPaid || b.Status() == booking.StatusConfirmed
		if active && b.UserID() == userID && b.BoatID() == boatID && b.Stay().Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

func (r memBookings) CompleteExpired(_ context.Context, _ db.DBTX, now time.Time) ([]shared.ExpiredBooking, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []shared.ExpiredBooking
	for id, b := range r.s.bookings {
		active := b.Status() == booking.StatusPaid || b.Status() == booking.StatusConfirmed
		if active && b.Stay().CheckOut().Before(now) {
			r.s.bookings[id] = cloneBooking(b, booking.StatusCompleted)
			out = append(out, shared.ExpiredBooking{ID: id, BoatID: b.BoatID()})
		}
	}
	return out, nil
}

type fixedSettings struct {
	minNights int
	err       error
}

func (f fixedSettings) MinBookingNights(context.Context) (int, error) {
	return f.minNights, f.err
}

type notification struct {
	userID uuid.UUID
	title  string
}

type recorder struct {
	mu            sync.Mutex
	notifications []notification
	confirmations []shared.BookingConfirmation
	statusUpdates []shared.BookingStatusUpdate
	invalidated   []uuid.UUID
	accepted      int
	rejected      []string
	transitions   []string
	expired       int
	conflicts     int
}

func (r *recorder) Notify(_ context.Context, userID uuid.UUID, title, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification{userID: userID, title: title})
}

func (r *recorder) SendBookingConfirmation(_ context.Context, _ shared.Recipient, d shared.BookingConfirmation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmations = append(r.confirmations, d)
}

func (r *recorder) SendBookingStatusUpdate(_ context.Context, _ shared.Recipient, d shared.BookingStatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusUpdates = append(r.statusUpdates, d)
}

func (r *recorder) Invalidate(_ context.Context, boatID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, boatID)
}

func (r *recorder) AdmissionAccepted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted++
}

func (r *recorder) AdmissionRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

func (r *recorder) StatusChanged(from, to booking.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, from.String()+"->"+to.String())
}

func (r *recorder) ExpiredCompleted(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired += n
}

func (r *recorder) PaymentConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n.title)
	}
	return out
}
