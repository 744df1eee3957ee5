package config

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const slowRequest = 200 * time.Millisecond

// PerformanceLogger logs every request with its latency and feeds the HTTP metrics.
// m may be nil.
func PerformanceLogger(log logrus.FieldLogger, m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if m != nil {
			m.httpInFlight.Inc()
			defer m.httpInFlight.Dec()
		}

		c.Next()

		latency := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()

		if m != nil {
			m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(latency.Seconds())
		}

		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case latency > slowRequest:
			entry.Warn("slow request")
		default:
			entry.Info("request")
		}
	}
}
