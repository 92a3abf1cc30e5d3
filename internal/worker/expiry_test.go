//go:build unit

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"houseboat-booking/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) AutoCompleteExpired(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExpiryWorker_SweepsOnStartAndOnTick(t *testing.T) {
	sweeper := &countingSweeper{}
	w := worker.NewExpiryWorker(sweeper, 10*time.Millisecond, discard())

	w.Start()
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))

	stopped := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, sweeper.calls.Load())
}

func TestExpiryWorker_KeepsRunningAfterFailure(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	w := worker.NewExpiryWorker(sweeper, 10*time.Millisecond, discard())

	w.Start()
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop(context.Background()))
}

func TestExpiryWorker_StopWithoutStart(t *testing.T) {
	w := worker.NewExpiryWorker(&countingSweeper{}, time.Hour, discard())
	assert.NoError(t, w.Stop(context.Background()))
}
