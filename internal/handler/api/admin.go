package api

import (
	"net/http"

	"houseboat-booking/internal/domain/booking"
	reqdto "houseboat-booking/internal/handler/dto/request"
	resdto "houseboat-booking/internal/handler/dto/response"
	"houseboat-booking/internal/handler/httperr"
	"houseboat-booking/internal/usecase/commands"
	"houseboat-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminBookingHandler serves staff-only routes; the router guards it with
// RequireRoleAtLeast.
type AdminBookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewAdminBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *AdminBookingHandler {
	return &AdminBookingHandler{cmds: cmds, q: q}
}

// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status"
// @Param boatId query string false "Boat ID"
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Page size (1-200)"
// @Success 200 {object} resdto.BookingPageResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/bookings [get]
func (h *AdminBookingHandler) List(c *gin.Context) {
	var q reqdto.AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	var filter queries.BookingFilter
	if q.Status != "" {
		status := booking.Status(q.Status)
		filter.Status = &status
	}
	if q.BoatID != "" {
		// binding already checked the format
		boatID := uuid.MustParse(q.BoatID)
		filter.BoatID = &boatID
	}

	page, err := h.q.ListAll(c.Request.Context(), filter, cursorOf(q.Cursor), q.Limit)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingPage(page))
}

// @Summary Update booking status
// @Description Staff override following the lifecycle transition table
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateStatusRequest true "New status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/bookings/{id}/status [patch]
func (h *AdminBookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.UpdateStatus(c.Request.Context(), req.ToInput(id))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
