package queries

import (
	"context"
	"log/slog"

	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/infra"
	"houseboat-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingQueries interface {
	// Get returns the booking to its owner or to staff.
	Get(ctx context.Context, principal user.Principal, id uuid.UUID) (*BookingView, error)
	ListMine(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) (*BookingPage, error)
	ListAll(ctx context.Context, filter BookingFilter, after *Cursor, limit int) (*BookingPage, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, criteria ListCriteria) ([]*BookingView, error)
}

// ExpirySweeper completes bookings whose stay is over so list reads never
// show stale PAID/CONFIRMED rows.
type ExpirySweeper interface {
	AutoCompleteExpired(ctx context.Context) (int, error)
}

type bookingQueriesImpl struct {
	store   BookingReadStore
	sweeper ExpirySweeper
	logger  *slog.Logger
}

func NewBookingQueries(store BookingReadStore, sweeper ExpirySweeper, logger *slog.Logger) BookingQueries {
	return &bookingQueriesImpl{
		store:   store,
		sweeper: sweeper,
		logger:  logger,
	}
}

func (q *bookingQueriesImpl) Get(ctx context.Context, principal user.Principal, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	// Someone else's booking is reported as missing
	if view.UserID != principal.UserID && !principal.IsStaff() {
		return nil, errs.ErrBookingNotFound
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListMine(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) (*BookingPage, error) {
	return q.list(ctx, ListCriteria{UserID: &userID}, after, limit)
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, filter BookingFilter, after *Cursor, limit int) (*BookingPage, error) {
	return q.list(ctx, ListCriteria{Status: filter.Status, BoatID: filter.BoatID}, after, limit)
}

func (q *bookingQueriesImpl) list(ctx context.Context, criteria ListCriteria, after *Cursor, limit int) (*BookingPage, error) {
	q.sweep(ctx)

	limit = ValidateLimit(limit)
	if after != nil && after.After != "" {
		createdAt, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, errs.Invalid("invalid cursor")
		}
		criteria.AfterCreatedAt = &createdAt
		criteria.AfterID = &id
	}
	// One extra row tells us whether another page exists
	criteria.Limit = limit + 1

	items, err := q.store.List(ctx, criteria)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	page := &BookingPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.Next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	if page.Items == nil {
		page.Items = []*BookingView{}
	}
	return page, nil
}

// Sweep failures are logged only; the ticker worker retries them.
func (q *bookingQueriesImpl) sweep(ctx context.Context) {
	if q.sweeper == nil {
		return
	}
	if _, err := q.sweeper.AutoCompleteExpired(ctx); err != nil {
		q.logger.Warn("inline expiry sweep failed", "error", err.Error())
	}
}
