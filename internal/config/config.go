package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envAddr      = "USERDESK_ADDR"
	envPGDSN     = "USERDESK_PG_DSN"
	envSecret    = "USERDESK_AUTH_SECRET"
	envTokenTTL  = "USERDESK_TOKEN_TTL"
	envRateRPS   = "USERDESK_RATE_PER_SEC"
	envRateBurst = "USERDESK_RATE_BURST"
)

// ErrMissingSecret indicates the signing secret was not provided. There is no
// development fallback: a process without a secret must not start.
var ErrMissingSecret = errors.New("config: " + envSecret + " is required")

// Config is the immutable process configuration, loaded once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Addr       string
	PGDSN      string
	AuthSecret string
	TokenTTL   time.Duration
	RatePerSec int
	RateBurst  int
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Addr:       getenv(envAddr, ":8080"),
		PGDSN:      strings.TrimSpace(os.Getenv(envPGDSN)),
		AuthSecret: strings.TrimSpace(os.Getenv(envSecret)),
		TokenTTL:   7 * 24 * time.Hour,
		RatePerSec: 20,
		RateBurst:  40,
	}
	if cfg.AuthSecret == "" {
		return Config{}, ErrMissingSecret
	}
	if raw := strings.TrimSpace(os.Getenv(envTokenTTL)); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("config: invalid %s: %q", envTokenTTL, raw)
		}
		cfg.TokenTTL = ttl
	}
	var err error
	if cfg.RatePerSec, err = getenvInt(envRateRPS, cfg.RatePerSec); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = getenvInt(envRateBurst, cfg.RateBurst); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("config: invalid %s: %q", key, raw)
	}
	return v, nil
}
