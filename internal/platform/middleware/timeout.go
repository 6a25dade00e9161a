package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripcost/service-route/internal/platform/response"
)

// Timeout attaches a deadline to the request context. The handler chain runs
// synchronously; handlers that surface the deadline error get a 503 through
// response.Error, and if nothing was written once the deadline fired the same
// 503 is sent here. Calls that ignore the context are not interrupted.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() != nil && !c.Writer.Written() {
			response.Timeout(c)
		}
	}
}
