package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one method on one route family.
type Rule struct {
	Method string        // HTTP method, "" matches any
	Prefix string        // path prefix; a trailing "/" matches sub-paths only
	Suffix string        // optional path suffix, e.g. "/assist"
	Limit  int           // requests per Window, 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleAfter       time.Duration
	Allow           map[string]bool
	Deny            map[string]bool
	Rules           []Rule
}

// LoadConfig reads RATE_LIMIT_* variables on top of the default rules.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleAfter:       time.Hour,
		Allow:           parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Deny:            parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the built-in per-route limits. The first matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "GET", Prefix: "/health", Limit: 0},
		{Method: "GET", Prefix: "/metrics", Limit: 0},
		{Method: "POST", Prefix: "/webhooks/", Limit: 0},

		// model calls
		{Method: "POST", Prefix: "/proposals/", Suffix: "/assist", Limit: 20, Window: time.Hour, Burst: 3},

		// credential endpoints
		{Method: "POST", Prefix: "/auth/", Limit: 10, Window: time.Minute, Burst: 5},

		// session traffic from editors
		{Method: "POST", Prefix: "/sessions", Limit: 30, Window: time.Minute, Burst: 10},
		{Method: "POST", Prefix: "/preview/", Limit: 120, Window: time.Minute, Burst: 20},

		// dashboard writes
		{Method: "POST", Prefix: "/proposals", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "PUT", Prefix: "/proposals/", Limit: 120, Window: time.Minute, Burst: 20},
		{Method: "DELETE", Prefix: "/proposals/", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func parseIPList(list string) map[string]bool {
	out := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
