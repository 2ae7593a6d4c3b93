package repo

import (
	"context"
	"time"
)

// AlertRecord holds the last UP/DOWN state we saw for a target and the
// last time a notification went out (used for cooldown).
type AlertRecord struct {
	TargetID   int64
	LastState  bool
	LastSentAt *time.Time
}

// AlertStore persists alert state between scans.
type AlertStore interface {
	// Get returns nil, nil when there is no record yet.
	Get(ctx context.Context, targetID int64) (*AlertRecord, error)
	// Set upserts the record. A zero sentAt stores a null send time.
	Set(ctx context.Context, targetID int64, lastState bool, sentAt time.Time) error
}
