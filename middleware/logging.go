package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request correlation id in and out.
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

type loggerCtxKey struct{}

// RequestLogger assigns a request id, stores a request-scoped logger and logs
// one line per completed request.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := base.With(zap.String("request_id", requestID))
		c.Set(loggerKey, reqLogger)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), loggerCtxKey{}, reqLogger))

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request completed", fields...)
		case status >= 400:
			reqLogger.Warn("request completed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}

// Logger returns the request-scoped logger, or a no-op logger outside a request.
func Logger(c *gin.Context) *zap.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if l, ok := value.(*zap.Logger); ok {
			return l
		}
	}
	if c.Request == nil {
		return zap.NewNop()
	}
	return LoggerFromContext(c.Request.Context())
}

// LoggerFromContext returns the logger stored by RequestLogger.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerCtxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
