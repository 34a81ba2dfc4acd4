package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/config"
	"github.com/hamed0406/pingme/internal/httpapi"
	apimw "github.com/hamed0406/pingme/internal/httpapi/middleware"
	"github.com/hamed0406/pingme/internal/logging"
	"github.com/hamed0406/pingme/internal/metrics"
	"github.com/hamed0406/pingme/internal/notify"
	"github.com/hamed0406/pingme/internal/probe"
	"github.com/hamed0406/pingme/internal/repo"
	"github.com/hamed0406/pingme/internal/repo/memory"
	"github.com/hamed0406/pingme/internal/repo/postgres"
	"github.com/hamed0406/pingme/internal/repo/redis"
	"github.com/hamed0406/pingme/internal/scheduler"
)

type store interface {
	repo.Registry
	repo.StatusStore
}

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogStderr)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store_open_error", zap.Error(err))
	}
	defer closeStore()

	m := metrics.New()

	sinks := notify.Multi{notify.Log{Logger: logger}}
	if slack := notify.NewSlack(cfg.SlackWebhook, cfg.SlackUsername); slack != nil {
		sinks = append(sinks, slack)
	}

	alerter := scheduler.NewAlerter(logger, sinks, m)
	coord := scheduler.NewCoordinator(logger, st, st, probe.NewHTTPProber(cfg.HTTPTimeout), alerter, m,
		scheduler.CoordinatorConfig{
			InitialDelay: cfg.InitialDelay,
			Interval:     cfg.CheckInterval,
			Timeout:      cfg.HTTPTimeout,
			Concurrency:  cfg.MaxConcurrent,
		})

	coordDone := make(chan struct{})
	go func() {
		defer close(coordDone)
		if cfg.CheckInterval == 0 {
			logger.Info("coordinator_disabled")
			return
		}
		coord.Run(ctx)
	}()

	api := httpapi.NewServer(logger, st, st, m.Handler())
	api.Interval = cfg.CheckInterval
	api.SlowResponse = cfg.SlowResponse
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}
	// let a running cycle finish; probes are bounded by their own timeout
	select {
	case <-coordDone:
	case <-shutdownCtx.Done():
		logger.Warn("coordinator_shutdown_timeout")
	}
	logger.Info("shutdown_complete")
}

// openStore picks redis, then postgres, then memory.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store, func(), error) {
	switch {
	case cfg.RedisURL != "":
		s, err := redis.New(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store_selected", zap.String("backend", "redis"))
		return s, func() { _ = s.Close() }, nil
	case cfg.DatabaseURL != "":
		s, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		logger.Info("store_selected", zap.String("backend", "postgres"))
		return s, s.Close, nil
	default:
		logger.Warn("store_selected", zap.String("backend", "memory"))
		return memory.New(), func() {}, nil
	}
}
