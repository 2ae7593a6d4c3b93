package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

var (
	_ repo.TargetStore = (*Store)(nil)
	_ repo.ResultStore = (*Store)(nil)
)

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ---- TargetStore ----

func (s *Store) Add(ctx context.Context, t *domain.Target) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO targets (url, name, category, interval_seconds, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.URL, t.Name, t.Category, t.IntervalSeconds, t.IsActive, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert target: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Target, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, url, name, category, interval_seconds, is_active, created_at
		   FROM targets
		  ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var out []*domain.Target
	for rows.Next() {
		var t domain.Target
		if err := rows.Scan(&t.ID, &t.URL, &t.Name, &t.Category,
			&t.IntervalSeconds, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Target, error) {
	var t domain.Target
	err := s.pool.QueryRow(ctx,
		`SELECT id, url, name, category, interval_seconds, is_active, created_at
		   FROM targets WHERE url = $1`, url,
	).Scan(&t.ID, &t.URL, &t.Name, &t.Category, &t.IntervalSeconds, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("get target by url: %w", err)
	}
	return &t, nil
}

// ---- ResultStore ----

func (s *Store) Append(ctx context.Context, r *domain.CheckResult) error {
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO results (target_id, up, http_status, latency_ms, result, details, checked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.TargetID, r.Up, r.HTTPStatus, r.LatencyMS, r.Result, r.Details, r.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *Store) LastByTarget(ctx context.Context, id int64) (*domain.CheckResult, error) {
	var r domain.CheckResult
	err := s.pool.QueryRow(ctx,
		`SELECT target_id, up, http_status, latency_ms, result, details, checked_at
		   FROM results
		  WHERE target_id = $1
		  ORDER BY checked_at DESC
		  LIMIT 1`, id,
	).Scan(&r.TargetID, &r.Up, &r.HTTPStatus, &r.LatencyMS, &r.Result, &r.Details, &r.CheckedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last result: %w", err)
	}
	return &r, nil
}

func (s *Store) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ON (r.target_id)
		        r.target_id, t.url, r.up, r.http_status, r.latency_ms,
		        r.result, r.details, r.checked_at
		   FROM results r
		   JOIN targets t ON t.id = r.target_id
		  ORDER BY r.target_id, r.checked_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("latest results: %w", err)
	}
	defer rows.Close()

	var out []repo.LatestRow
	for rows.Next() {
		var (
			row    repo.LatestRow
			status int
			lat    int64
		)
		if err := rows.Scan(&row.TargetID, &row.URL, &row.Up, &status, &lat,
			&row.Result, &row.Details, &row.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan latest row: %w", err)
		}
		if status != 0 {
			v := status
			row.HTTPStatus = &v
		}
		if lat != 0 {
			v := lat
			row.LatencyMS = &v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
