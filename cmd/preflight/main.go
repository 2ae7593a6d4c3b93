// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	allowed := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	slack := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (target admin routes will 403).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (read routes will 401).")
	}

	// Comma-separated with no spaces, e.g. key1,key2
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces")
		}
	}

	if addr == "" {
		warn("ADDR is empty; the default bind address will be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if db == "" {
		warn("DATABASE_URL empty — results live in the in-memory store and vanish on restart.")
	} else {
		ok("DATABASE_URL present")
	}

	if allowed == "" {
		warn("ALLOWED_ORIGINS empty — API allows all origins.")
	} else {
		ok("ALLOWED_ORIGINS=" + allowed)
	}

	if slack == "" {
		warn("SLACK_WEBHOOK empty — alerting is disabled.")
	} else {
		ok("SLACK_WEBHOOK present")
	}

	ok("preflight passed")
}
