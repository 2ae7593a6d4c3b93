package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

// Minimal schema so the test can run on a fresh DB/volume.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS targets (
  id               BIGSERIAL PRIMARY KEY,
  url              TEXT NOT NULL UNIQUE,
  name             TEXT NOT NULL DEFAULT '',
  category         TEXT NOT NULL DEFAULT '',
  interval_seconds INTEGER NOT NULL DEFAULT 0,
  is_active        BOOLEAN NOT NULL DEFAULT TRUE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS results (
  id          BIGSERIAL PRIMARY KEY,
  target_id   BIGINT NOT NULL REFERENCES targets(id) ON DELETE CASCADE,
  up          BOOLEAN NOT NULL,
  http_status INTEGER NOT NULL DEFAULT 0,
  latency_ms  BIGINT NOT NULL,
  result      TEXT NOT NULL,
  details     TEXT NOT NULL DEFAULT '',
  checked_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
  target_id    BIGINT PRIMARY KEY REFERENCES targets(id) ON DELETE CASCADE,
  last_state   BOOLEAN NOT NULL,
  last_sent_at TIMESTAMPTZ NULL
);

CREATE INDEX IF NOT EXISTS idx_results_target_time ON results (target_id, checked_at DESC);
`

func ensureSchema(t *testing.T, dsn string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
}

func TestPostgresStore_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ensureSchema(t, dsn)

	ctx := context.Background()
	store, err := New(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("New store: %v", err)
	}
	defer store.Close()

	// Unique URL per run to avoid UNIQUE(url) collisions across runs.
	uniqueURL := fmt.Sprintf("https://example.com/test-%d", time.Now().UTC().UnixNano())
	tgt := &domain.Target{URL: uniqueURL, Name: "it", IsActive: true}
	if err := store.Add(ctx, tgt); err != nil {
		t.Fatalf("Add target: %v", err)
	}
	if tgt.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	got, err := store.GetByURL(ctx, uniqueURL)
	if err != nil || got == nil || got.ID != tgt.ID {
		t.Fatalf("GetByURL: %v err=%v", got, err)
	}

	res := &domain.CheckResult{
		TargetID:   tgt.ID,
		Up:         true,
		HTTPStatus: 200,
		LatencyMS:  42,
		Result:     "OK",
		CheckedAt:  time.Now().UTC(),
	}
	if err := store.Append(ctx, res); err != nil {
		t.Fatalf("Append result: %v", err)
	}

	last, err := store.LastByTarget(ctx, tgt.ID)
	if err != nil || last == nil || last.Result != "OK" {
		t.Fatalf("LastByTarget: %v err=%v", last, err)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	var row *repo.LatestRow
	for i := range latest {
		if latest[i].TargetID == tgt.ID {
			row = &latest[i]
			break
		}
	}
	if row == nil {
		t.Fatalf("latest for target %d not found", tgt.ID)
	}
	if !row.Up || row.URL != uniqueURL || row.Result != "OK" {
		t.Fatalf("latest row wrong: %+v", row)
	}
	if row.HTTPStatus == nil || *row.HTTPStatus != 200 {
		t.Fatalf("expected HTTPStatus=200, got %v", row.HTTPStatus)
	}

	// Alert state round trip.
	if rec, err := store.Get(ctx, tgt.ID); err != nil || rec != nil {
		t.Fatalf("alert Get before Set: %v err=%v", rec, err)
	}
	if err := store.Set(ctx, tgt.ID, false, time.Now().UTC()); err != nil {
		t.Fatalf("alert Set: %v", err)
	}
	rec, err := store.Get(ctx, tgt.ID)
	if err != nil || rec == nil || rec.LastState || rec.LastSentAt == nil {
		t.Fatalf("alert Get after Set: %+v err=%v", rec, err)
	}
}
