package middleware

import (
	"log/slog"
	"net/http"

	"houseboat-booking/internal/handler/httperr"
	"houseboat-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLinesLogged = 12

// ErrorHandler writes the last public error collected by the handlers and
// turns anything else into a generic 500. Server-side failures are logged
// with their stack; the client only ever sees the public message.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		resp, public := last.Meta.(httperr.Response)
		if !last.IsType(gin.ErrorTypePublic) || !public {
			resp = httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil)
		}
		if resp.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"request_id", GetRequestID(c),
				"route", c.FullPath(),
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, stackLinesLogged))
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(resp.Status, resp)
	}
}

func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("recovered from panic",
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", err)

				resp := httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil)
				c.AbortWithStatusJSON(resp.Status, resp)
			}
		}()
		c.Next()
	}
}
