package probe

import "context"

// CheckResult is the outcome of one availability check.
//
// Fields:
// - Status: final HTTP status code; 0 when no response was ever obtained.
// - LatencyMS: wall-clock time for the whole check, fallback included.
// - Result: "OK" or "FAIL:<reason>".
// - Details: raw transport error text and DNS diagnostics, when any.
type CheckResult struct {
	Status    int    `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Result    string `json:"result"`
	Details   string `json:"details,omitempty"`
}

// Up reports whether the check found the target healthy.
func (r CheckResult) Up() bool { return r.Result == ResultOK }

// Checker performs a single availability check for a target URL.
// Implementations never return a Go error; every failure mode is folded
// into the CheckResult.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
