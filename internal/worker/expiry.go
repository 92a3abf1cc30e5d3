package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper completes bookings whose check-out date has passed.
type Sweeper interface {
	AutoCompleteExpired(ctx context.Context) (int, error)
}

// ExpiryWorker runs the sweep once at start and then on every tick until
// stopped.
type ExpiryWorker struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewExpiryWorker(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Start returns immediately; the loop runs on its own goroutine.
func (w *ExpiryWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop cancels the loop and waits for an in-flight sweep, bounded by ctx.
func (w *ExpiryWorker) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.once.Do(w.cancel)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *ExpiryWorker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("expiry worker started", "interval", w.interval.String())
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	n, err := w.sweeper.AutoCompleteExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("expiry sweep failed", "error", err.Error())
		return
	}
	if n > 0 {
		w.logger.Info("expiry sweep completed bookings", "count", n)
	}
}
