package config

import (
	"net/http"
	"time"

	"facturacion-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	slowRequest     = 200 * time.Millisecond
)

// PerformanceLogger tags each request with an id, logs its outcome and timing,
// and turns panics into a 500.
func PerformanceLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		reqLog := log.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set(logger.GinLoggerKey, reqLog)

		defer func() {
			if r := recover(); r != nil {
				reqLog.Error("panic recovered", zap.Any("panic", r), zap.Stack("stacktrace"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			}
			logRequest(c, reqLog, time.Since(start))
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, log *zap.Logger, latency time.Duration) {
	status := c.Writer.Status()
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", c.ClientIP()),
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
	}

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request", fields...)
	case latency > slowRequest:
		log.Warn("slow request", fields...)
	case status >= http.StatusBadRequest:
		log.Warn("request", fields...)
	default:
		log.Info("request", fields...)
	}
}
