package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
)

const headerCronSecret = "X-Cron-Secret"

// RequireCronSecret guards internal batch routes. An empty secret disables
// the routes entirely.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.RespondError(c, http.StatusServiceUnavailable, "cron_disabled", errors.New("cron secret is not configured"))
			c.Abort()
			return
		}
		got := c.GetHeader(headerCronSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid cron secret"))
			c.Abort()
			return
		}
		c.Next()
	}
}
