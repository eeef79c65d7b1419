package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"phoneline/internal/storage"
)

const (
	SnapshotStoreNone  = "none"
	SnapshotStoreLocal = "local"
	SnapshotStoreR2    = "r2"
)

// Config holds application configuration.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	RestaurantAPIBaseURL string
	UpstreamTimeout      time.Duration
	// UseSampleRestaurant serves the built-in sample instead of calling
	// the restaurant-data service.
	UseSampleRestaurant bool
	RestaurantTimezone  string

	CORSAllowOrigins []string
	StaticDir        string
	APIProxyTarget   string

	JWTSecret   string
	DatabaseURL string

	SnapshotStore string
	SnapshotDir   string
	R2            storage.R2Config
}

// Load reads configuration from environment variables with sensible
// defaults. Outside production a local .env file is loaded first.
func Load() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
	}

	cfg := Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8000"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		RestaurantAPIBaseURL: getEnv("RESTAURANT_API_BASE_URL", "https://phoneline-dashboard-backend-63qdm.ondigitalocean.app/api"),
		UpstreamTimeout:      timeout,
		UseSampleRestaurant:  strings.EqualFold(os.Getenv("USE_SAMPLE_RESTAURANT"), "true"),
		RestaurantTimezone:   getEnv("RESTAURANT_TIMEZONE", "Canada/Eastern"),

		CORSAllowOrigins: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		StaticDir:        os.Getenv("STATIC_DIR"),
		APIProxyTarget:   os.Getenv("API_PROXY_TARGET"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SnapshotStore: strings.ToLower(getEnv("SNAPSHOT_STORE", SnapshotStoreNone)),
		SnapshotDir:   getEnv("SNAPSHOT_DIR", "./data"),
		R2: storage.R2Config{
			Endpoint:      os.Getenv("R2_ENDPOINT"),
			AccessKey:     os.Getenv("R2_ACCESS_KEY"),
			SecretKey:     os.Getenv("R2_SECRET_KEY"),
			Bucket:        os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	return cfg, cfg.Validate()
}

// Validate fails fast on settings the server cannot start without.
func (c Config) Validate() error {
	var missing []string

	if !c.UseSampleRestaurant && c.RestaurantAPIBaseURL == "" {
		missing = append(missing, "RESTAURANT_API_BASE_URL")
	}
	if c.Env == "production" && c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch c.SnapshotStore {
	case SnapshotStoreNone, SnapshotStoreLocal:
	case SnapshotStoreR2:
		required := map[string]string{
			"R2_ENDPOINT":    c.R2.Endpoint,
			"R2_ACCESS_KEY":  c.R2.AccessKey,
			"R2_SECRET_KEY":  c.R2.SecretKey,
			"R2_BUCKET_NAME": c.R2.Bucket,
		}
		for _, k := range []string{"R2_ENDPOINT", "R2_ACCESS_KEY", "R2_SECRET_KEY", "R2_BUCKET_NAME"} {
			if required[k] == "" {
				missing = append(missing, k)
			}
		}
	default:
		return fmt.Errorf("unknown SNAPSHOT_STORE %q", c.SnapshotStore)
	}

	if len(missing) > 0 {
		return errors.New("missing env vars: " + strings.Join(missing, ", "))
	}
	return nil
}

// Location resolves RestaurantTimezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.RestaurantTimezone)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
