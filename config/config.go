// Package config loads runtime settings, connects the database and provides the
// logger, metrics and request logging shared by the HTTP layer.
package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret      string
	JWTExpiryHours int

	CORSOrigins []string
	FrontendURL string
	Location    *time.Location

	InvitationTTL time.Duration

	LogLevel  string
	LogFormat string

	RateLimitRPS   float64
	RateLimitBurst int

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	AdminEmail    string
	AdminPassword string

	ReminderCron string
	ExpiryCron   string
}

// LoadDotenv loads .env when present; a missing file is not an error.
func LoadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		DatabaseURL:    os.Getenv("DB_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiryHours: envInt("JWT_EXPIRY_HOURS", 24),
		CORSOrigins:    splitList(envOr("CORS_ORIGINS", "http://localhost:3000")),
		FrontendURL:    strings.TrimRight(envOr("FRONTEND_URL", "http://localhost:3000"), "/"),
		InvitationTTL:  time.Duration(envInt("INVITATION_TTL_HOURS", 7*24)) * time.Hour,

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),

		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 10),

		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     envOr("SMTP_FROM", "no-reply@salonbook.local"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOr("S3_REGION", "us-east-1"),
		S3Bucket:    envOr("S3_BUCKET", "salon-gallery"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		ReminderCron: envOr("REMINDER_CRON", "0 * * * *"),
		ExpiryCron:   envOr("EXPIRY_CRON", "30 3 * * *"),
	}

	loc, err := time.LoadLocation(envOr("TIME_ZONE", "UTC"))
	if err != nil {
		return nil, errors.New("invalid TIME_ZONE: " + err.Error())
	}
	cfg.Location = loc

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DB_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func envOr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

// allow comma-separated list of origins
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
