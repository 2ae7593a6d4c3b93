package repo

import (
	"context"
	"errors"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// ErrNotFound is returned by lookups that matched nothing.
var ErrNotFound = errors.New("repo: not found")

// Ports (interfaces) — swap in any DB adapter later.
type TargetStore interface {
	Add(ctx context.Context, t *domain.Target) error
	List(ctx context.Context) ([]*domain.Target, error)
	GetByURL(ctx context.Context, url string) (*domain.Target, error)
}

type ResultStore interface {
	Append(ctx context.Context, r *domain.CheckResult) error
	// Latest returns the most recent result per target.
	Latest(ctx context.Context) ([]LatestRow, error)
	// LastByTarget returns nil, nil when the target was never checked.
	LastByTarget(ctx context.Context, id int64) (*domain.CheckResult, error)
}

// LatestRow joins a target with its newest check result for display and
// alerting.
type LatestRow struct {
	TargetID   int64     `json:"target_id"`
	URL        string    `json:"url"`
	Up         bool      `json:"up"`
	HTTPStatus *int      `json:"http_status"`
	LatencyMS  *int64    `json:"latency_ms"`
	Result     string    `json:"result"`
	Details    string    `json:"details,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
