package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user/reelcircle/internal/logging"
	"github.com/user/reelcircle/internal/metrics"
)

// Logger 请求日志中间件：每个请求一行结构化日志，同时记录 Prometheus 指标。
// 需放在 RequestID 之后。
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		reqLog := logging.Logger().With().Str("request_id", GetRequestID(c)).Logger()
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLog))

		// 处理请求
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), status, latency)

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = reqLog.Error()
		case status >= 400:
			ev = reqLog.Warn()
		default:
			ev = reqLog.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Int("user_id", GetUserID(c)).
			Msg("request")
	}
}
