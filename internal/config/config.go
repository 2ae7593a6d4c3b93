package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr        string // API bind address, e.g. "127.0.0.1:8080"
	LogDir      string // logs directory
	DatabaseURL string // empty means the in-memory store

	RecheckInterval    time.Duration // tick between scheduler scans; 0 disables
	RecheckConcurrency int           // how many targets are checked at once
	CheckTimeout       time.Duration // outer cap for one full check
	DNSFallback        bool          // www. re-run after a DNS terminal failure

	AlertCooldown   time.Duration
	AlertOnRecovery bool
	SlackWebhook    string

	PublicAPIKeys  []string
	AdminAPIKeys   []string
	AllowedOrigins []string
}

func FromEnv() Config {
	cfg := Config{
		Addr:               envStr("ADDR", "127.0.0.1:8080"),
		LogDir:             envStr("LOG_DIR", "logs"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RecheckInterval:    envDuration("RECHECK_INTERVAL_SEC", 60*time.Second, time.Second),
		RecheckConcurrency: envInt("RECHECK_CONCURRENCY", 8),
		CheckTimeout:       envDuration("CHECK_TIMEOUT_SEC", 0, time.Second),
		DNSFallback:        envBool("DNS_FALLBACK", true),
		AlertCooldown:      envDuration("ALERT_COOLDOWN_MIN", 30*time.Minute, time.Minute),
		AlertOnRecovery:    envBool("ALERT_ON_RECOVERY", true),
		SlackWebhook:       os.Getenv("SLACK_WEBHOOK"),
		PublicAPIKeys:      envList("PUBLIC_API_KEYS"),
		AdminAPIKeys:       envList("ADMIN_API_KEYS"),
		AllowedOrigins:     envList("ALLOWED_ORIGINS"),
	}
	if cfg.RecheckConcurrency < 1 {
		cfg.RecheckConcurrency = 1
	}
	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def, unit time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * unit
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
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
