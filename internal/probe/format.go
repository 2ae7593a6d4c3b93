package probe

import (
	"fmt"
	"time"
)

const (
	ResultOK   = "OK"
	failPrefix = "FAIL:"
)

// reasonByStatus gives the failure statuses their own wording; anything
// else non-2xx/3xx falls through to a generic "HTTP error (<code>)".
var reasonByStatus = map[int]string{
	400: "bad request rejected",
	403: "access forbidden",
	404: "page not found",
	410: "page gone",
	500: "server error",
	502: "bad gateway",
	503: "service unavailable",
	504: "gateway timeout",
}

// reasonByKind covers checks that never obtained an HTTP status.
var reasonByKind = map[ErrorKind]string{
	KindTimeout:           "timed out",
	KindConnectionRefused: "connection refused",
	KindConnectionReset:   "connection reset",
	KindHangUp:            "server hung up",
	KindProtocolError:     "protocol error",
	KindTLSError:          "certificate/TLS error",
	KindDNSFailure:        "address resolution failed",
	KindInvalidURL:        "invalid address",
}

// formatResult stamps the latency and renders the terminal outcome into
// the OK / FAIL:<reason> contract.
func formatResult(out attemptOutcome, start time.Time) CheckResult {
	r := CheckResult{
		Status:    out.status,
		LatencyMS: time.Since(start).Milliseconds(),
		Details:   out.raw,
	}

	switch {
	case out.status >= 200 && out.status < 400:
		r.Result = ResultOK
	case out.status != 0:
		reason, ok := reasonByStatus[out.status]
		if !ok {
			reason = fmt.Sprintf("HTTP error (%d)", out.status)
		}
		r.Result = failPrefix + reason
	default:
		reason, ok := reasonByKind[out.kind]
		if !ok {
			reason = "unreachable"
			if out.raw != "" {
				reason += ": " + out.raw
			}
		}
		r.Result = failPrefix + reason
	}
	return r
}
