package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
)

// ErrorKind partitions transport failures into the buckets the cascade
// understands. The zero value means "no error".
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindTimeout           ErrorKind = "timeout"
	KindConnectionReset   ErrorKind = "connection_reset"
	KindConnectionRefused ErrorKind = "connection_refused"
	KindHangUp            ErrorKind = "hang_up"
	KindProtocolError     ErrorKind = "protocol_error"
	KindTLSError          ErrorKind = "tls_error"
	KindDNSFailure        ErrorKind = "dns_failure"
	KindInvalidURL        ErrorKind = "invalid_url"
	KindUnknown           ErrorKind = "unknown"
)

// Retryable reports whether a failure of this kind should advance the
// cascade to the next strategy. TLS, DNS and URL failures are terminal:
// a different persona will not fix them.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindConnectionReset, KindConnectionRefused, KindHangUp, KindProtocolError:
		return true
	}
	return false
}

// tokenRule maps an error-text substring to a kind. Matching is
// case-insensitive and first-match-wins, so rule order carries the
// taxonomy's precedence (timeouts before TLS, so a "TLS handshake
// timeout" stays retryable).
type tokenRule struct {
	token string
	kind  ErrorKind
}

var tokenTable = []tokenRule{
	{"context deadline exceeded", KindTimeout},
	{"timed out", KindTimeout},
	{"timeout", KindTimeout},
	{"connection reset", KindConnectionReset},
	{"econnreset", KindConnectionReset},
	{"broken pipe", KindConnectionReset},
	{"connection refused", KindConnectionRefused},
	{"econnrefused", KindConnectionRefused},
	{"hang up", KindHangUp},
	{"server closed idle connection", KindHangUp},
	{"unexpected eof", KindHangUp},
	{"hpe_", KindProtocolError},
	{"malformed http", KindProtocolError},
	{"transport connection broken", KindProtocolError},
	{"parse error", KindProtocolError},
	{"certificate", KindTLSError},
	{"x509", KindTLSError},
	{"tls", KindTLSError},
	{"ssl", KindTLSError},
	{"no such host", KindDNSFailure},
	{"server misbehaving", KindDNSFailure},
	{"cannot resolve", KindDNSFailure},
	{"name resolution", KindDNSFailure},
	{"dns", KindDNSFailure},
	{"missing protocol scheme", KindInvalidURL},
	{"unsupported protocol scheme", KindInvalidURL},
	{"invalid url", KindInvalidURL},
	{"invalid uri", KindInvalidURL},
	{"invalid control character in url", KindInvalidURL},
}

// Classify maps a transport error into the closed ErrorKind set.
// Structured error types are checked first so Go's net stack classifies
// exactly; the token table is the transport-agnostic fallback that lets
// another HTTP client be substituted without touching the cascade.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNSFailure
	}

	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return KindTLSError
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return KindTLSError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())
	for _, r := range tokenTable {
		if strings.Contains(msg, r.token) {
			return r.kind
		}
	}
	return KindUnknown
}
