// One-shot checker: runs the full cascade for a single URL and prints
// the result, exiting 0 for OK and 1 for any FAIL.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/probe"
)

func main() {
	debug := flag.Bool("debug", false, "log every cascade attempt to stderr")
	noFallback := flag.Bool("no-www-fallback", false, "disable the www. retry on DNS failures")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: check [-debug] [-no-www-fallback] <url>")
		os.Exit(2)
	}

	raw := strings.TrimSpace(flag.Arg(0))
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	logger := zap.NewNop()
	if *debug {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}

	engine := probe.NewEngine(probe.DefaultCatalog(), logger)
	engine.DNSFallback = !*noFallback

	ctx, cancel := context.WithTimeout(context.Background(), 2*engine.Catalog.TotalBudget()+10*time.Second)
	defer cancel()

	out := engine.Check(ctx, raw)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)

	if !out.Up() {
		os.Exit(1)
	}
}
