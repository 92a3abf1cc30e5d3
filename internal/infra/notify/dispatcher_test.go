//go:build unit

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/pkg/clock"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/pkg/ptr"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, published{key: key, payload: v})
	return p.err
}

type countingFailures struct {
	mu       sync.Mutex
	channels []string
}

func (c *countingFailures) DeliveryFailed(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = append(c.channels, channel)
}

func newTestDispatcher(pub Publisher, failures FailureRecorder) *Dispatcher {
	clk := clock.NewFixedClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	return NewDispatcher(pub, failures, clk, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func waitAll(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func TestDispatcher_PublishesPayloads(t *testing.T) {
	pub := &recordingPublisher{}
	d := newTestDispatcher(pub, nil)
	userID := uuid.New()
	bookingID := uuid.New()

	d.Notify(context.Background(), userID, "Booking received", "We have your booking")
	d.SendBookingConfirmation(context.Background(),
		shared.Recipient{Email: "a@example.com", Name: "Asha"},
		shared.BookingConfirmation{
			BookingID:  bookingID,
			BoatName:   "Pearl",
			CheckIn:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:   time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			TotalPrice: 20000,
			Status:     booking.StatusPending,
		})
	d.SendBookingStatusUpdate(context.Background(),
		shared.Recipient{Email: "a@example.com", Name: "Asha"},
		shared.BookingStatusUpdate{BookingID: bookingID, BoatName: "Pearl", Status: booking.StatusConfirmed, Message: ptr.Of("see you aboard")})
	waitAll(t, d)

	byKey := map[string]any{}
	for _, m := range pub.messages {
		byKey[m.key] = m.payload
	}
	require.Len(t, byKey, 3)

	assert.Equal(t, UserNotification{
		UserID:  userID,
		Title:   "Booking received",
		Message: "We have your booking",
		SentAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}, byKey[KeyUserNotification])

	assert.Equal(t, BookingConfirmationEmail{
		To:         "a@example.com",
		Name:       "Asha",
		BookingID:  bookingID.String(),
		BoatName:   "Pearl",
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		TotalPrice: 20000,
		Status:     "PENDING",
	}, byKey[KeyBookingConfirmation])

	status, ok := byKey[KeyBookingStatusUpdate].(BookingStatusEmail)
	require.True(t, ok)
	assert.Equal(t, "CONFIRMED", status.Status)
	require.NotNil(t, status.Message)
	assert.Equal(t, "see you aboard", *status.Message)
}

func TestDispatcher_FailuresAreSwallowedAndCounted(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	failures := &countingFailures{}
	d := newTestDispatcher(pub, failures)

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), uuid.New(), "t", "m")
		d.SendBookingStatusUpdate(context.Background(), shared.Recipient{}, shared.BookingStatusUpdate{Status: booking.StatusCancelled})
	})
	waitAll(t, d)

	assert.ElementsMatch(t, []string{"notification", "email"}, failures.channels)
}

func TestDispatcher_DeliveryOutlivesRequestContext(t *testing.T) {
	pub := &recordingPublisher{}
	d := newTestDispatcher(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Notify(ctx, uuid.New(), "t", "m")
	waitAll(t, d)

	assert.Len(t, pub.messages, 1)
}

func TestLogPublisher_EncodeFailureCarriesStack(t *testing.T) {
	pub := NewLogPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := pub.PublishJSON(context.Background(), "notification.user", map[string]any{"bad": make(chan int)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode message")
	var typeErr *json.UnsupportedTypeError
	assert.True(t, errs.As(err, &typeErr))
	assert.Greater(t, len(errs.ExtractStackLines(err, 0)), 1)
}
