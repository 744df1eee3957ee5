package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/salonbook")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("TIME_ZONE", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("INVITATION_TTL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/salonbook")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example/, https://b.example ,")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("TIME_ZONE", "Europe/Paris")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "x")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_URL")

	t.Setenv("DB_URL", "postgres://localhost/salonbook")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("TIME_ZONE", "Mars/Olympus")
	_, err = Load()
	assert.ErrorContains(t, err, "TIME_ZONE")
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", "text")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = NewLogger("nonsense", "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestPerformanceLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := logtest.NewNullLogger()
	m := NewMetrics()

	r := gin.New()
	r.Use(PerformanceLogger(log, m))
	r.GET("/ok/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok/1", "/ok/2", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ok/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/boom", "500")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))

	require.Len(t, hook.AllEntries(), 3)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, 500, hook.LastEntry().Data["status"])
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.AppointmentStatus("pending")
	m.AppointmentStatus("pending")
	m.Notification("sms", "sent")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("sms", "sent")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.AppointmentStatus("pending") })
}
