package probe

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// retryableStatuses advance the cascade to the next strategy; every
// other non-2xx/3xx status is a definitive answer from the site and
// stops the cascade.
var retryableStatuses = map[int]bool{
	400: true, 403: true, 405: true, 406: true, 412: true,
	500: true, 502: true, 503: true, 504: true,
}

// Engine walks the strategy catalog for one URL at a time. It holds no
// per-check state, so a single Engine serves any number of concurrent
// checks without locking.
type Engine struct {
	Catalog     Catalog
	Logger      *zap.Logger
	DNSFallback bool
	// Diagnose, when set, enriches DNS-failure details with a resolver
	// probe of the original host.
	Diagnose func(host string) DNSStatus

	exec attemptRunner
}

func NewEngine(catalog Catalog, logger *zap.Logger) *Engine {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Catalog:     catalog,
		Logger:      logger,
		DNSFallback: true,
		Diagnose:    CheckDNS,
		exec:        newHTTPExecutor(),
	}
}

var _ Checker = (*Engine)(nil)

// Check runs the full pipeline: the cascade, at most one www-prefix
// re-run after a DNS terminal failure, then formatting. It never
// returns a Go error.
func (e *Engine) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()

	out := e.runCascade(ctx, target)
	if e.DNSFallback && out.kind == KindDNSFailure {
		if alt, ok := wwwVariant(target); ok {
			e.Logger.Debug("dns_fallback",
				zap.String("url", target),
				zap.String("retry_url", alt),
			)
			out = e.runCascade(ctx, alt)
		}
	}

	res := formatResult(out, start)
	if out.kind == KindDNSFailure && e.Diagnose != nil {
		if host := hostOf(target); host != "" {
			diag := e.Diagnose(host)
			res.Details = strings.TrimSpace(res.Details + " dns=" + diag.Class)
			e.Logger.Debug("dns_diagnostic",
				zap.String("host", host),
				zap.String("class", diag.Class),
				zap.String("resolver_error", diag.ResolverError),
			)
		}
	}

	e.Logger.Debug("check_done",
		zap.String("url", target),
		zap.Int("status", res.Status),
		zap.String("result", res.Result),
		zap.Int64("latency_ms", res.LatencyMS),
	)
	return res
}

// runCascade tries the catalog strictly in order and stops on the first
// success or terminal outcome. On exhaustion the last observed outcome
// stands: status 0 if every attempt errored, the last status otherwise.
func (e *Engine) runCascade(ctx context.Context, target string) attemptOutcome {
	var last attemptOutcome
	for _, s := range e.Catalog {
		out := e.exec.execute(ctx, target, s)
		last = out

		switch {
		case out.kind == KindNone && out.status >= 200 && out.status < 400:
			return out
		case out.kind == KindNone && retryableStatuses[out.status]:
			e.Logger.Debug("cascade_advance",
				zap.String("strategy", s.Name),
				zap.Int("status", out.status),
			)
		case out.kind == KindNone:
			return out // definitive status (401, 404, 410, ...)
		case out.kind.Retryable():
			e.Logger.Debug("cascade_advance",
				zap.String("strategy", s.Name),
				zap.String("kind", string(out.kind)),
			)
		default:
			return out // terminal classification
		}
	}
	return last
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
