package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/httpapi"
	"github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/logging"
	"github.com/hamed0406/sitecheck/internal/notify"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo"
	"github.com/hamed0406/sitecheck/internal/repo/memory"
	"github.com/hamed0406/sitecheck/internal/repo/postgres"
	"github.com/hamed0406/sitecheck/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, os.Getenv("DEBUG") != "")
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		targets repo.TargetStore
		results repo.ResultStore
		alerts  repo.AlertStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("postgres_connect", zap.Error(err))
		}
		defer pg.Close()
		targets, results, alerts = pg, pg, pg
		logger.Info("store_postgres")
	} else {
		mem := memory.New()
		targets, results, alerts = mem, mem, mem
		logger.Info("store_memory")
	}

	engine := probe.NewEngine(probe.DefaultCatalog(), logger)
	engine.DNSFallback = cfg.DNSFallback

	api := httpapi.NewServer(logger, targets, results, engine)
	api.Keys = middleware.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	api.Origins = cfg.AllowedOrigins

	rechecker := scheduler.NewRechecker(
		logger, targets, results, engine,
		cfg.RecheckInterval, cfg.CheckTimeout, cfg.RecheckConcurrency,
	)
	go rechecker.Run(ctx)

	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		alerter := scheduler.NewAlerter(results, alerts, notify.Multi{slack}, scheduler.AlerterConfig{
			AlertOnRecovery: cfg.AlertOnRecovery,
			Cooldown:        cfg.AlertCooldown,
			PollInterval:    time.Minute,
		})
		go func() { _ = alerter.Run(ctx) }()
		logger.Info("alerter_enabled")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_serve", zap.Error(err))
	}
	logger.Info("api_stopped")
}
