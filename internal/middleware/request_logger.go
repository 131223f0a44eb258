package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger logs one line per request, tagged with the request id set by
// RequestID. Requests to skipPaths are not logged. The query string is never
// logged since form prefill links carry the user's text in it.
func RequestLogger(logger *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := lo.SliceToMap(skipPaths, func(p string) (string, struct{}) { return p, struct{}{} })

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}

		status := c.Writer.Status()
		level, msg := requestLevel(status)
		ce := logger.Check(level, msg)
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		ce.Write(fields...)
	}
}

func requestLevel(status int) (zapcore.Level, string) {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel, "request failed"
	case status >= 400:
		return zapcore.WarnLevel, "client error"
	default:
		return zapcore.InfoLevel, "request"
	}
}
