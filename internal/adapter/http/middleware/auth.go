package middleware

import (
	"github.com/gin-gonic/gin"

	"todos/internal/adapter/http/helper"
	"todos/internal/core/port"
)

// BearerAuth gates every protected route. It stands in for the gateway
// authorizer: a request with a missing, malformed or unverifiable token is
// denied with 403 before any handler runs, exposing no item data.
func BearerAuth(verifier port.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifier.Verify(c.Request.Context(), c.GetHeader("Authorization"))

		if err != nil {
			helper.SendForbiddenError(c, "User is not authorized")
			c.Abort()
			return
		}

		c.Set("x-user-id", claims.Subject)
		c.Next()
	}
}
