package domain

import "time"

// Target is a site to watch. It is owned by the admin/CRUD layer; the
// check engine only ever reads URL.
type Target struct {
	ID              int64     `json:"id"`
	URL             string    `json:"url"`
	Name            string    `json:"name,omitempty"`
	Category        string    `json:"category,omitempty"`
	IntervalSeconds int       `json:"interval_seconds,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// CheckInterval returns the per-target recheck interval, falling back to
// def when the target does not set one.
func (t *Target) CheckInterval(def time.Duration) time.Duration {
	if t.IntervalSeconds <= 0 {
		return def
	}
	return time.Duration(t.IntervalSeconds) * time.Second
}

// CheckResult is one persisted probe outcome for a target.
// Result is "OK" or "FAIL:<reason>"; HTTPStatus is 0 when no response
// was ever obtained.
type CheckResult struct {
	TargetID   int64     `json:"target_id"`
	Up         bool      `json:"up"`
	HTTPStatus int       `json:"http_status,omitempty"`
	LatencyMS  int64     `json:"latency_ms"`
	Result     string    `json:"result"`
	Details    string    `json:"details,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
