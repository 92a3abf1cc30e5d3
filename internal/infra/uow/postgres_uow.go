package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"houseboat-booking/internal/infra/db"
	"houseboat-booking/internal/infra/repository"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
	pgErrCodeLockNotAvailable     = "55P03"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errLockTimeout        = errs.New("failed to set lock timeout")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type Options struct {
	MaxRetries  int
	BaseBackoff time.Duration
	// LockTimeout is applied with SET LOCAL; zero keeps the server default.
	LockTimeout time.Duration
}

// RetryRecorder is told about every retried attempt.
type RetryRecorder interface {
	TxRetried(code string)
}

type nopRetryRecorder struct{}

func (nopRetryRecorder) TxRetried(string) {}

type PostgresUoW struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	opts    Options
	retries RetryRecorder

	boats    *repository.BoatRepository
	bookings *repository.BookingRepository
	users    *repository.UserRepository
}

func NewPostgresUoW(pool *pgxpool.Pool, logger *slog.Logger, opts Options, retries RetryRecorder) *PostgresUoW {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 50 * time.Millisecond
	}
	if retries == nil {
		retries = nopRetryRecorder{}
	}
	return &PostgresUoW{
		pool:     pool,
		logger:   logger,
		opts:     opts,
		retries:  retries,
		boats:    repository.NewBoatRepository(logger),
		bookings: repository.NewBookingRepository(logger),
		users:    repository.NewUserRepository(logger),
	}
}

// Within runs fn in a READ COMMITTED transaction. Admission and status
// changes serialize on the boat row lock taken inside fn, so stronger
// isolation buys nothing; deadlocks between two boats are retried.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= u.opts.MaxRetries; attempt++ {
		err := u.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		code, retryable := retryableCode(err)
		if code == pgErrCodeLockNotAvailable {
			return errs.Mark(err, errs.ErrConcurrentUpdate)
		}
		if !retryable {
			return err
		}
		if attempt == u.opts.MaxRetries {
			break
		}
		u.retries.TxRetried(code)

		wait := backoff(attempt, u.opts.BaseBackoff)
		u.logger.Warn("retrying transaction",
			"attempt", attempt+1,
			"pg_code", code,
			"wait_ms", wait.Milliseconds())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	u.logger.Error("transaction failed after max retries",
		"attempts", u.opts.MaxRetries+1,
		"error", lastErr.Error())
	return errs.Mark(errs.Mark(lastErr, errMaxRetriesExceeded), errs.ErrConcurrentUpdate)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &pgTx{dbtx: u.pool, uow: u})
}

// attempt owns exactly one pgx transaction so no rollback is deferred
// across retries.
func (u *PostgresUoW) attempt(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = u.setLockTimeout(ctx, pgxTx)
	if err == nil {
		err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	}
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		u.logger.Warn("rollback failed", "error", rbErr.Error())
	}
	return err
}

func (u *PostgresUoW) setLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if u.opts.LockTimeout <= 0 {
		return nil
	}
	ms := strconv.FormatInt(u.opts.LockTimeout.Milliseconds(), 10)
	if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", ms+"ms"); err != nil {
		return errs.Mark(err, errLockTimeout)
	}
	return nil
}

func retryableCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return pgErr.Code, true
	default:
		return pgErr.Code, false
	}
}

// backoff doubles per attempt and adds up to 20% jitter.
func backoff(attempt int, base time.Duration) time.Duration {
	wait := base << attempt
	return wait + time.Duration(randInt63n(int64(wait/5)))
}

func randInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// #nosec G115 -- high bit masked off
	return int64(binary.BigEndian.Uint64(buf[:])&0x7FFFFFFFFFFFFFFF) % n
}

type pgTx struct {
	dbtx db.DBTX
	uow  *PostgresUoW
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Boats() shared.BoatRepository {
	return t.uow.boats
}

func (t *pgTx) Bookings() shared.BookingRepository {
	return t.uow.bookings
}

func (t *pgTx) Users() shared.UserRepository {
	return t.uow.users
}
