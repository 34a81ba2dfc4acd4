// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/hamed0406/pingme/internal/config"
)

type level int

const (
	levelOK level = iota
	levelWarn
	levelFail
)

type finding struct {
	level level
	msg   string
}

func main() {
	if !report(os.Stdout, os.Stderr, check(config.FromEnv(), os.Getenv)) {
		os.Exit(1)
	}
	fmt.Println("✔ preflight passed")
}

// check inspects the effective configuration. getenv is used for the raw
// values that config normalizes away (spaces in key lists).
func check(cfg config.Config, getenv func(string) string) []finding {
	var out []finding
	ok := func(msg string) { out = append(out, finding{levelOK, msg}) }
	warn := func(msg string) { out = append(out, finding{levelWarn, msg}) }
	fail := func(msg string) { out = append(out, finding{levelFail, msg}) }

	if len(cfg.AdminAPIKeys) == 0 {
		fail("ADMIN_API_KEYS is empty (admin routes will 403).")
	}
	if len(cfg.PublicAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty; only admin keys can read.")
	}
	for _, name := range []string{"ADMIN_API_KEYS", "PUBLIC_API_KEYS"} {
		if strings.Contains(getenv(name), " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	ok("API_ADDR=" + cfg.Addr)

	switch {
	case cfg.RedisURL != "":
		if _, err := url.Parse(cfg.RedisURL); err != nil || !strings.HasPrefix(cfg.RedisURL, "redis") {
			fail("REDIS_URL is not a redis:// or rediss:// URL.")
		} else {
			ok("REDIS_URL present; using redis store")
		}
		if cfg.DatabaseURL != "" {
			warn("DATABASE_URL is ignored while REDIS_URL is set.")
		}
	case cfg.DatabaseURL != "":
		ok("DATABASE_URL present; using postgres store")
	default:
		warn("REDIS_URL and DATABASE_URL empty; targets live in memory and are lost on restart.")
	}

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty; alerts are only logged.")
	} else if u, err := url.Parse(cfg.SlackWebhook); err != nil || u.Scheme != "https" {
		fail("SLACK_WEBHOOK_URL must be an https URL.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	switch {
	case cfg.CheckInterval == 0:
		warn("CHECK_INTERVAL_MS=0; polling is disabled.")
	case cfg.CheckInterval < cfg.HTTPTimeout:
		warn(fmt.Sprintf("CHECK_INTERVAL_MS (%s) is shorter than HTTP_TIMEOUT_MS (%s).", cfg.CheckInterval, cfg.HTTPTimeout))
	default:
		ok(fmt.Sprintf("checking every %s, timeout %s", cfg.CheckInterval, cfg.HTTPTimeout))
	}
	if cfg.MaxConcurrent < 1 {
		fail("MAX_CONCURRENT_CHECKS must be at least 1.")
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; browser will be blocked by CORS for cross-origin requests.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}
	return out
}

// report prints findings and returns false if any of them failed.
func report(stdout, stderr io.Writer, findings []finding) bool {
	passed := true
	for _, f := range findings {
		switch f.level {
		case levelOK:
			fmt.Fprintln(stdout, "✔", f.msg)
		case levelWarn:
			fmt.Fprintln(stderr, "⚠", f.msg)
		case levelFail:
			fmt.Fprintln(stderr, "✖", f.msg)
			passed = false
		}
	}
	return passed
}
