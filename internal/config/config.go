// Package config reads the service configuration from the environment,
// after loading .env files for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Addr           string
	DatabaseDSN    string
	RedisURL       string
	JWTSecret      string
	PageSize       int
	CORSOrigins    []string
	DBTimeout      time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	Lookup Lookup
}

// Lookup configures the outbound name resolver and its cache.
type Lookup struct {
	BaseURL    string
	RPS        float64
	MaxRetries int
	Timeout    time.Duration
	CacheTTL   time.Duration
}

// LoadEnvFiles loads .env and .env.local without overriding variables
// already set by the runtime (e.g. Docker).
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration. JWT_SECRET and DB_DSN are required.
func Load() (Config, error) {
	cfg := Config{
		Env:            getEnv("APP_ENV", "production"),
		Addr:           getEnv("APP_ADDR", ":8080"),
		DatabaseDSN:    os.Getenv("DB_DSN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitBurst: 20,
		Lookup: Lookup{
			BaseURL: getEnv("LOOKUP_BASE_URL", "https://www.strudel.org.uk/lookUP/json/"),
		},
	}

	var errs []error
	if cfg.DatabaseDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	var err error
	if cfg.PageSize, err = getInt("PAGE_SIZE", 200); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBTimeout, err = getDuration("DB_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 10); err != nil {
		errs = append(errs, err)
	}
	if cfg.Lookup.RPS, err = getFloat("LOOKUP_RPS", 2); err != nil {
		errs = append(errs, err)
	}
	if cfg.Lookup.MaxRetries, err = getInt("LOOKUP_MAX_RETRIES", 2); err != nil {
		errs = append(errs, err)
	}
	if cfg.Lookup.Timeout, err = getDuration("LOOKUP_TIMEOUT", 15*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.Lookup.CacheTTL, err = getDuration("LOOKUP_CACHE_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// IsDevelopment reports whether APP_ENV selects development defaults.
func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
