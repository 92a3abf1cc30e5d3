//go:build unit

package infra_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("keeps the kind through further wrapping", func(t *testing.T) {
		err := infra.WrapRepoErr(logger, infra.KindNotFound, "boat not found", errors.New("no rows"))
		wrapped := errs.Wrap(err, "load boat")

		assert.True(t, infra.IsKind(wrapped, infra.KindNotFound))
		assert.False(t, infra.IsKind(wrapped, infra.KindDBFailure))
	})

	t.Run("driver error stays reachable", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "40001"}
		err := infra.WrapRepoErr(logger, infra.KindDBFailure, "lock boat", pgErr)

		var got *pgconn.PgError
		assert.True(t, errors.As(err, &got))
		assert.Equal(t, "40001", got.Code)
	})

	t.Run("cancellation overrides the kind", func(t *testing.T) {
		err := infra.WrapRepoErr(logger, infra.KindDBFailure, "query occupancies", fmt.Errorf("query: %w", context.Canceled))

		assert.True(t, infra.IsKind(err, infra.KindCanceled))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil cause", func(t *testing.T) {
		err := infra.WrapRepoErr(logger, infra.KindNotFound, "booking not found", nil)

		assert.EqualError(t, err, "NOT_FOUND: booking not found")
	})

	t.Run("plain errors have no kind", func(t *testing.T) {
		assert.False(t, infra.IsKind(errors.New("boom"), infra.KindNotFound))
	})
}
