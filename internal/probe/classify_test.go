package probe

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestClassify_Table(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"dns_not_found", &net.DNSError{Err: "no such host", Name: "x.invalid", IsNotFound: true}, KindDNSFailure},
		{"dns_timeout", &net.DNSError{Err: "i/o timeout", Name: "x.invalid", IsTimeout: true}, KindTimeout},
		{"reset_text", errors.New("read tcp 10.0.0.1:443: connection reset by peer"), KindConnectionReset},
		{"refused_text", errors.New("dial tcp 10.0.0.1:80: connect: connection refused"), KindConnectionRefused},
		{"hang_up_text", errors.New("socket hang up"), KindHangUp},
		{"eof_text", errors.New("unexpected EOF"), KindHangUp},
		{"hpe_text", errors.New("HPE_INVALID_CONSTANT"), KindProtocolError},
		{"malformed_text", errors.New("net/http: HTTP/1.x transport connection broken: malformed HTTP response"), KindProtocolError},
		{"tls_text", errors.New("remote error: tls: handshake failure"), KindTLSError},
		{"x509_text", errors.New("x509: certificate signed by unknown authority"), KindTLSError},
		{"tls_handshake_timeout_is_timeout", errors.New("net/http: TLS handshake timeout"), KindTimeout},
		{"no_such_host_text", errors.New("dial tcp: lookup x.invalid: no such host"), KindDNSFailure},
		{"bad_scheme", errors.New(`Get "://x": missing protocol scheme`), KindInvalidURL},
		{"unknown", errors.New("something odd happened"), KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassify_WrappedTransportError(t *testing.T) {
	// http.Client wraps everything in *url.Error; classification must
	// see through it.
	inner := &net.DNSError{Err: "no such host", Name: "x.invalid", IsNotFound: true}
	wrapped := errors.Join(errors.New("Get \"http://x.invalid\""), inner)
	if got := Classify(wrapped); got != KindDNSFailure {
		t.Fatalf("wrapped DNS error classified as %q", got)
	}
}

func TestErrorKind_Retryable(t *testing.T) {
	retryable := []ErrorKind{KindTimeout, KindConnectionReset, KindConnectionRefused, KindHangUp, KindProtocolError}
	terminal := []ErrorKind{KindTLSError, KindDNSFailure, KindInvalidURL, KindUnknown, KindNone}

	for _, k := range retryable {
		if !k.Retryable() {
			t.Fatalf("%q should be retryable", k)
		}
	}
	for _, k := range terminal {
		if k.Retryable() {
			t.Fatalf("%q should be terminal", k)
		}
	}
}
