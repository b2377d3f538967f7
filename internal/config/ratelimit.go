package config

import (
	"os"
	"strconv"
)

// RateLimitConfig controls the per-client request budget. The limiter uses
// a fixed one-minute window keyed by client IP and route.
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
	Prefix    string
}

// LoadRateLimitConfig reads RATE_LIMIT_ENABLED and RATE_LIMIT_PER_MINUTE
// with sane defaults.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:   envBool("RATE_LIMIT_ENABLED", true),
		PerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		Prefix:    envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.PerMinute < 1 {
		cfg.PerMinute = 1
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
