package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/sitecheck/internal/notify"
	"github.com/hamed0406/sitecheck/internal/repo"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
	PollInterval    time.Duration
}

// Alerter watches the latest result per target and notifies on state
// changes. DOWN alerts respect the cooldown; recovery alerts bypass it.
type Alerter struct {
	results  repo.ResultStore
	alertDB  repo.AlertStore
	notifier notify.Notifier
	cfg      AlerterConfig
}

func NewAlerter(results repo.ResultStore, alertDB repo.AlertStore, n notify.Notifier, cfg AlerterConfig) *Alerter {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	return &Alerter{results: results, alertDB: alertDB, notifier: n, cfg: cfg}
}

func (a *Alerter) Run(ctx context.Context) error {
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	_ = a.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = a.scanOnce(ctx)
		}
	}
}

func (a *Alerter) scanOnce(ctx context.Context) error {
	rows, err := a.results.Latest(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, r := range rows {
		rec, _ := a.alertDB.Get(ctx, r.TargetID)

		stateChanged := rec == nil || rec.LastState != r.Up

		// Cooldown only suppresses repeated DOWN alerts.
		cooled := true
		if rec != nil && rec.LastSentAt != nil {
			cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
		}

		downAlert := stateChanged && !r.Up && cooled
		recoveryAlert := stateChanged && r.Up && a.cfg.AlertOnRecovery

		if downAlert || recoveryAlert {
			title := "🔴 Target DOWN"
			if r.Up {
				title = "🟢 Target RECOVERED"
			}

			httpTxt := "n/a"
			if r.HTTPStatus != nil {
				httpTxt = fmt.Sprintf("%d", *r.HTTPStatus)
			}
			latencyTxt := "n/a"
			if r.LatencyMS != nil {
				latencyTxt = fmt.Sprintf("%d ms", *r.LatencyMS)
			}

			text := fmt.Sprintf(
				"URL: %s\nHTTP: %s\nLatency: %s\nResult: %s\nChecked: %s",
				r.URL, httpTxt, latencyTxt, r.Result, r.CheckedAt.Format(time.RFC3339),
			)

			_ = a.notifier.Send(ctx, title, text)
			_ = a.alertDB.Set(ctx, r.TargetID, r.Up, now)
			continue
		}

		// State changed but nothing was sent (cooldown, or recovery
		// alerts disabled): still record the new state.
		if stateChanged {
			_ = a.alertDB.Set(ctx, r.TargetID, r.Up, time.Time{})
		}
	}

	return nil
}
