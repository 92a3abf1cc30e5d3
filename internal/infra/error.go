package infra

import (
	"context"
	"errors"
	"log/slog"

	"houseboat-booking/internal/pkg/errs"
)

type RepositoryErrorKind string

const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindCanceled           RepositoryErrorKind = "CANCELED"
)

// RepositoryError keeps the driver error reachable through Unwrap so the
// unit of work can still detect serialization failures and deadlocks.
type RepositoryError struct {
	Kind RepositoryErrorKind
	op   string
	err  error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.op + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.op
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr logs and classifies a storage failure. A request that was
// abandoned by its caller is reported as KindCanceled whatever kind the
// repository guessed.
func WrapRepoErr(logger *slog.Logger, kind RepositoryErrorKind, op string, err error) error {
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		kind = KindCanceled
	}

	attrs := []any{slog.String("op", op), slog.String("kind", string(kind))}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	switch kind {
	case KindNotFound:
		logger.Debug("repository miss", attrs...)
	case KindCanceled, KindDuplicateKey:
		logger.Warn("repository call failed", attrs...)
	default:
		logger.Error("repository call failed", attrs...)
	}

	if err != nil {
		err = errs.Wrap(err, op)
	}
	return RepositoryError{Kind: kind, op: op, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errs.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
