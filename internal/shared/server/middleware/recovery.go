package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/metrics"
	"storefront-backend/internal/shared/server/respond"
	"storefront-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 {"error":...} body. If the handler
// already started writing, the connection is left as is.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncHTTPPanic()
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"error":      rec,
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "panic", "internal server error")
		}()
		c.Next()
	}
}
