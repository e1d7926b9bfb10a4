package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment
// variables. Gateway credentials and the session secret are injected here
// instead of being read ad hoc inside handlers, so tests can run against
// fake credentials.
type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	SessionSecret string

	// Public base URL of this deployment; the gateway posts payment results
	// to {PublicBaseURL}/api/mpesa-callback.
	PublicBaseURL string

	MpesaBaseURL        string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaPasskey        string
	MpesaShortCode      string

	StorageBasePath string
	StorageBaseURL  string
	GeoIPDBPath     string
	AllowedOrigins  []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. M-Pesa credentials are deliberately not required at
// boot: a deployment without them serves the read API and reports a gateway
// auth failure on payment initiation.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		PublicBaseURL:       getEnv("PUBLIC_APP_URL", "http://localhost:8080"),
		MpesaBaseURL:        getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		MpesaConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		MpesaPasskey:        os.Getenv("MPESA_PASSKEY"),
		MpesaShortCode:      os.Getenv("MPESA_SHORTCODE"),
		StorageBasePath:     getEnv("STORAGE_BASE_PATH", "./data/uploads"),
		StorageBaseURL:      getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		GeoIPDBPath:         os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.MpesaBaseURL = strings.TrimRight(cfg.MpesaBaseURL, "/")

	return cfg, nil
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies).
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
