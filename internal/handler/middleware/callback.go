package middleware

import (
	"crypto/subtle"
	"net/http"

	"houseboat-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const CallbackSecretHeader = "X-Callback-Secret"

// RequireCallbackSecret checks the shared secret the payment gateway sends
// with every callback. An empty secret disables the check.
func RequireCallbackSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader(CallbackSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Invalid callback signature", nil)
			return
		}
		c.Next()
	}
}
