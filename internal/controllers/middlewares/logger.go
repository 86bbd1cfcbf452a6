package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware должен быть первым в стеке миддлваре.
func LoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"uri":        c.Request.RequestURI,
			"method":     c.Request.Method,
			"status":     statusCode,
			"latency_ms": latency.Milliseconds(),
		})

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry = entry.WithField("error", errorMessage)
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			entry.Error("Server error")
		case statusCode >= http.StatusBadRequest:
			entry.Warn("Client error")
		default:
			entry.Info("Request processed")
		}
	}
}
