package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"remote_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		})
		if reqID := c.Writer.Header().Get(RequestIDHeader); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}
		entry.Debug("Incoming request")

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		completedEntry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
		})
		if reqID := c.Writer.Header().Get(RequestIDHeader); reqID != "" {
			completedEntry = completedEntry.WithField("request_id", reqID)
		}
		if sid := c.GetString(SessionIDKey); sid != "" {
			completedEntry = completedEntry.WithField("session_id", sid)
		}

		if len(c.Errors) > 0 {
			completedEntry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		} else {
			if statusCode >= 500 {
				completedEntry.Error("Request completed with server error")
			} else if statusCode >= 400 {
				completedEntry.Warn("Request completed with client error")
			} else {
				completedEntry.Info("Request completed successfully")
			}
		}
	}
}
