package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/pkg/clock"
	"houseboat-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	KeyUserNotification    = "notification.user"
	KeyBookingConfirmation = "email.booking_confirmation"
	KeyBookingStatusUpdate = "email.booking_status_update"
)

type UserNotification struct {
	UserID  uuid.UUID `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type BookingConfirmationEmail struct {
	To         string  `json:"to"`
	Name       string  `json:"name"`
	BookingID  string  `json:"booking_id"`
	BoatName   string  `json:"boat_name"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

type BookingStatusEmail struct {
	To        string  `json:"to"`
	Name      string  `json:"name"`
	BookingID string  `json:"booking_id"`
	BoatName  string  `json:"boat_name"`
	Status    string  `json:"status"`
	Message   *string `json:"message,omitempty"`
}

type FailureRecorder interface {
	DeliveryFailed(channel string)
}

// Dispatcher implements the notifier and mailer ports on top of a Publisher.
// Every call returns immediately; delivery runs on its own goroutine with a
// bounded timeout and failures are logged and counted, never returned.
type Dispatcher struct {
	publisher Publisher
	failures  FailureRecorder
	clock     clock.Clock
	timeout   time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

var (
	_ shared.Notifier = (*Dispatcher)(nil)
	_ shared.Mailer   = (*Dispatcher)(nil)
)

func NewDispatcher(publisher Publisher, failures FailureRecorder, clk clock.Clock, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		failures:  failures,
		clock:     clk,
		timeout:   timeout,
		logger:    logger,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, title, message string) {
	d.send(ctx, "notification", KeyUserNotification, UserNotification{
		UserID:  userID,
		Title:   title,
		Message: message,
		SentAt:  d.clock.Now(),
	})
}

func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, to shared.Recipient, details shared.BookingConfirmation) {
	d.send(ctx, "email", KeyBookingConfirmation, BookingConfirmationEmail{
		To:         to.Email,
		Name:       to.Name,
		BookingID:  details.BookingID.String(),
		BoatName:   details.BoatName,
		CheckIn:    details.CheckIn.Format(booking.DateLayout),
		CheckOut:   details.CheckOut.Format(booking.DateLayout),
		TotalPrice: details.TotalPrice,
		Status:     details.Status.String(),
	})
}

func (d *Dispatcher) SendBookingStatusUpdate(ctx context.Context, to shared.Recipient, details shared.BookingStatusUpdate) {
	d.send(ctx, "email", KeyBookingStatusUpdate, BookingStatusEmail{
		To:        to.Email,
		Name:      to.Name,
		BookingID: details.BookingID.String(),
		BoatName:  details.BoatName,
		Status:    details.Status.String(),
		Message:   details.Message,
	})
}

func (d *Dispatcher) send(ctx context.Context, channel, key string, payload any) {
	// Detached from the request so delivery outlives the response
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		if err := d.publisher.PublishJSON(sendCtx, key, payload); err != nil {
			d.logger.Warn("side channel delivery failed",
				"channel", channel,
				"routing_key", key,
				"error", err.Error())
			if d.failures != nil {
				d.failures.DeliveryFailed(channel)
			}
		}
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
