package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestID tags every request with a correlation id, echoes it in the
// X-Request-ID response header and logs the request outcome.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestId := ctx.GetHeader("X-Request-ID")
		if requestId == "" {
			requestId = uuid.NewString()
		}
		ctx.Set("request_id", requestId)
		ctx.Header("X-Request-ID", requestId)

		start := time.Now()
		ctx.Next()

		logrus.WithFields(logrus.Fields{
			"request_id":  requestId,
			"method":      ctx.Request.Method,
			"path":        ctx.Request.URL.Path,
			"status_code": ctx.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("HTTP request")
	}
}
