package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo"
)

// Rechecker periodically re-runs the check pipeline for every active
// target that is due. Each target gets its own independent pipeline
// run; the semaphore only bounds how many run at once.
type Rechecker struct {
	Logger          *zap.Logger
	Targets         repo.TargetStore
	Results         repo.ResultStore
	Checker         probe.Checker
	Interval        time.Duration // tick between scans; 0 disables the loop
	DefaultInterval time.Duration // per-target recheck interval when the target has none
	CheckTimeout    time.Duration // outer cap on one full check, fallback included
	Concurrency     int
}

func NewRechecker(
	logger *zap.Logger,
	ts repo.TargetStore,
	rs repo.ResultStore,
	checker probe.Checker,
	interval time.Duration,
	checkTimeout time.Duration,
	concurrency int,
) *Rechecker {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	if checkTimeout <= 0 {
		checkTimeout = 2 * probe.DefaultCatalog().TotalBudget()
	}
	return &Rechecker{
		Logger:          logger,
		Targets:         ts,
		Results:         rs,
		Checker:         checker,
		Interval:        interval,
		DefaultInterval: 5 * time.Minute,
		CheckTimeout:    checkTimeout,
		Concurrency:     concurrency,
	}
}

// Run starts the loop: one immediate scan, then one per tick. Stops
// when ctx is cancelled.
func (r *Rechecker) Run(ctx context.Context) {
	if r.Interval == 0 {
		r.Logger.Info("rechecker_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("rechecker_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Rechecker) runOnce(ctx context.Context) {
	ts, err := r.Targets.List(ctx)
	if err != nil {
		r.Logger.Warn("rechecker_list_error", zap.Error(err))
		return
	}
	if len(ts) == 0 {
		return
	}

	now := time.Now().UTC()
	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for _, tgt := range ts {
		if !tgt.IsActive {
			continue
		}
		due, err := r.isDue(ctx, tgt, now)
		if err != nil {
			r.Logger.Warn("rechecker_due_error", zap.Int64("target_id", tgt.ID), zap.Error(err))
			continue
		}
		if !due {
			continue
		}

		t := tgt
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.CheckTimeout)
			defer cancel()

			out := r.Checker.Check(cctx, t.URL)

			cr := &domain.CheckResult{
				TargetID:   t.ID,
				Up:         out.Up(),
				HTTPStatus: out.Status,
				LatencyMS:  out.LatencyMS,
				Result:     out.Result,
				Details:    out.Details,
				CheckedAt:  time.Now().UTC(),
			}
			if err := r.Results.Append(ctx, cr); err != nil {
				r.Logger.Warn("rechecker_append_error",
					zap.Int64("target_id", t.ID),
					zap.String("url", t.URL),
					zap.Error(err),
				)
				return
			}
			r.Logger.Debug("rechecker_checked",
				zap.Int64("target_id", t.ID),
				zap.String("url", t.URL),
				zap.Int("status", out.Status),
				zap.Bool("up", out.Up()),
				zap.Int64("latency_ms", out.LatencyMS),
				zap.String("result", out.Result),
			)
		}()
	}

	wg.Wait()
}

// isDue checks the target's own interval against its newest result.
func (r *Rechecker) isDue(ctx context.Context, t *domain.Target, now time.Time) (bool, error) {
	last, err := r.Results.LastByTarget(ctx, t.ID)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return now.Sub(last.CheckedAt) >= t.CheckInterval(r.DefaultInterval), nil
}
