package api

import (
	"net/http"

	reqdto "houseboat-booking/internal/handler/dto/request"
	"houseboat-booking/internal/handler/httperr"
	"houseboat-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.BookingCommands
}

func NewPaymentHandler(cmds commands.BookingCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Payment gateway callback
// @Description Applies a success or failure verdict to the booking holding the payment id
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Callback-Secret header string false "Shared gateway secret"
// @Param request body reqdto.PaymentCallbackRequest true "Callback payload"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.HandlePaymentCallback(c.Request.Context(), req.ToInput()); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
