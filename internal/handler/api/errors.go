package api

import (
	"net/http"

	"houseboat-booking/internal/handler/httperr"
	"houseboat-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: typed errors carry their own message and are matched
// before the generic sentinels.
var errorMappings = []errorMapping{
	{target: errs.ErrBoatNotFound, status: http.StatusNotFound, message: "Boat not found"},
	{target: errs.ErrBookingNotFound, status: http.StatusNotFound, message: "Booking not found"},
	{target: errs.ErrUserNotFound, status: http.StatusNotFound, message: "User not found"},
	{target: errs.ErrDuplicateActiveBooking, status: http.StatusConflict, message: "You already have an active booking for this boat on these dates"},
	{target: errs.ErrInsufficientCapacity, status: http.StatusConflict},
	{target: errs.ErrCapacityNoLongerAvail, status: http.StatusConflict},
	{target: errs.ErrInvalidStatusTransition, status: http.StatusConflict},
	{target: errs.ErrConcurrentUpdate, status: http.StatusConflict, message: "The boat is busy with other bookings, please retry"},
	{target: errs.ErrNotEligibleForPayment, status: http.StatusBadRequest, message: "Booking is not eligible for payment"},
	{target: errs.ErrMinimumStay, status: http.StatusBadRequest},
	{target: errs.ErrValidation, status: http.StatusBadRequest},
}

// abortWithUsecaseError maps use case errors to statuses. Anything unknown
// becomes a 500 without internals.
func abortWithUsecaseError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errs.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = userMessage(err)
		}
		httperr.AbortWithError(c, m.status, err, msg, nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

// userMessage extracts the message of the typed errors that are safe to
// show as-is.
func userMessage(err error) string {
	var (
		capErr   *errs.CapacityError
		valErr   *errs.ValidationError
		stayErr  *errs.MinimumStayError
		transErr *errs.TransitionError
	)
	switch {
	case errs.As(err, &capErr):
		return capErr.Error()
	case errs.As(err, &valErr):
		return valErr.Error()
	case errs.As(err, &stayErr):
		return stayErr.Error()
	case errs.As(err, &transErr):
		return transErr.Error()
	default:
		return "Request failed"
	}
}
