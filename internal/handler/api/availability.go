package api

import (
	"net/http"

	reqdto "houseboat-booking/internal/handler/dto/request"
	resdto "houseboat-booking/internal/handler/dto/response"
	"houseboat-booking/internal/handler/httperr"
	"houseboat-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Check boat availability
// @Description Total, booked and available units per room type for a stay
// @Tags boats
// @Produce json
// @Param id path string true "Boat ID"
// @Param checkIn query string true "YYYY-MM-DD"
// @Param checkOut query string true "YYYY-MM-DD"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /boats/{id}/availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	boatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid boat id", nil)
		return
	}
	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "checkIn and checkOut are required", nil)
		return
	}
	view, err := h.q.Check(c.Request.Context(), boatID, q.CheckIn, q.CheckOut)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
