package probe

import (
	"net/url"
	"strings"
)

// wwwVariant rewrites a bare host with a www. prefix, preserving
// scheme, port, path and query. ok is false when the host already
// carries the prefix or the URL cannot be parsed; the caller then keeps
// the original outcome. One level of rewriting is all there is, so the
// fallback can never loop.
func wwwVariant(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(u.Hostname()), "www.") {
		return "", false
	}
	u.Host = "www." + u.Host
	return u.String(), true
}
