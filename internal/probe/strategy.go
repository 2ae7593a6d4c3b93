package probe

import "time"

// Strategy is one request persona: the headers it presents and the
// wall-clock budget it gets before the cascade moves on.
type Strategy struct {
	Name      string
	Timeout   time.Duration
	Headers   map[string]string
	KeepAlive bool
}

// Catalog is an ordered list of strategies. Order is retry priority:
// cheapest-to-fail first, most permissive last, with strictly
// increasing timeouts.
type Catalog []Strategy

const (
	uaChrome  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaFirefox = "Mozilla/5.0 (Windows NT 6.1; rv:60.0) Gecko/20100101 Firefox/60.0"
	uaPlain   = "sitecheck/1.0 (+https://github.com/hamed0406/sitecheck)"
)

// DefaultCatalog returns the production strategy order. Sites that
// answer a modern browser signature fail or succeed within 5s; the tail
// strategies exist for servers that dislike modern headers or are just
// slow.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:    "desktop-chrome",
			Timeout: 5 * time.Second,
			Headers: map[string]string{
				"User-Agent":      uaChrome,
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
				"Accept-Language": "en-US,en;q=0.9",
			},
			KeepAlive: true,
		},
		{
			Name:    "plain-agent",
			Timeout: 8 * time.Second,
			Headers: map[string]string{
				"User-Agent": uaPlain,
				"Accept":     "*/*",
			},
		},
		{
			Name:    "legacy-browser",
			Timeout: 12 * time.Second,
			Headers: map[string]string{
				"User-Agent": uaFirefox,
				"Accept":     "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			},
			KeepAlive: true,
		},
		{
			Name:    "lenient",
			Timeout: 20 * time.Second,
			Headers: map[string]string{
				"User-Agent": "Mozilla/5.0",
				"Accept":     "*/*",
			},
		},
	}
}

// TotalBudget sums the per-strategy timeouts; callers sizing an outer
// context deadline should allow at least twice this (one cascade plus
// the DNS fallback re-run).
func (c Catalog) TotalBudget() time.Duration {
	var sum time.Duration
	for _, s := range c {
		sum += s.Timeout
	}
	return sum
}
