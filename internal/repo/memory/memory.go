package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

// Store is the in-memory default used when DATABASE_URL is empty.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	targets map[int64]*domain.Target
	results []*domain.CheckResult
	alerts  map[int64]*repo.AlertRecord
}

var (
	_ repo.TargetStore = (*Store)(nil)
	_ repo.ResultStore = (*Store)(nil)
	_ repo.AlertStore  = (*Store)(nil)
)

func New() *Store {
	return &Store{
		nextID:  1,
		targets: make(map[int64]*domain.Target),
		results: make([]*domain.CheckResult, 0, 128),
		alerts:  make(map[int64]*repo.AlertRecord),
	}
}

func (m *Store) Add(ctx context.Context, t *domain.Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	} else if t.ID >= m.nextID {
		m.nextID = t.ID + 1
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	cp := *t
	m.targets[t.ID] = &cp
	return nil
}

func (m *Store) List(ctx context.Context) ([]*domain.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Target, 0, len(m.targets))
	for _, t := range m.targets {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Store) GetByURL(ctx context.Context, url string) (*domain.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.targets {
		if t.URL == url {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *Store) Append(ctx context.Context, r *domain.CheckResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.results = append(m.results, &cp)
	return nil
}

func (m *Store) LastByTarget(ctx context.Context, id int64) (*domain.CheckResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *domain.CheckResult
	for _, r := range m.results {
		if r.TargetID != id {
			continue
		}
		if last == nil || r.CheckedAt.After(last.CheckedAt) {
			last = r
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (m *Store) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[int64]*domain.CheckResult)
	for _, r := range m.results {
		cur := latest[r.TargetID]
		if cur == nil || r.CheckedAt.After(cur.CheckedAt) {
			latest[r.TargetID] = r
		}
	}

	out := make([]repo.LatestRow, 0, len(latest))
	for tid, r := range latest {
		var hs *int
		var lat *int64
		if r.HTTPStatus != 0 {
			v := r.HTTPStatus
			hs = &v
		}
		if r.LatencyMS != 0 {
			v := r.LatencyMS
			lat = &v
		}
		url := ""
		if t := m.targets[tid]; t != nil {
			url = t.URL
		}
		out = append(out, repo.LatestRow{
			TargetID:   tid,
			URL:        url,
			Up:         r.Up,
			HTTPStatus: hs,
			LatencyMS:  lat,
			Result:     r.Result,
			Details:    r.Details,
			CheckedAt:  r.CheckedAt,
		})
	}
	return out, nil
}

func (m *Store) Get(ctx context.Context, targetID int64) (*repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.alerts[targetID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *Store) Set(ctx context.Context, targetID int64, lastState bool, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &repo.AlertRecord{TargetID: targetID, LastState: lastState}
	if !sentAt.IsZero() {
		ts := sentAt
		rec.LastSentAt = &ts
	}
	m.alerts[targetID] = rec
	return nil
}
