package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/superbett/bancas-api/internal/api"
	"github.com/superbett/bancas-api/internal/config"
	"github.com/superbett/bancas-api/internal/db"
	"github.com/superbett/bancas-api/internal/logger"
	"github.com/superbett/bancas-api/internal/metrics"
	"github.com/superbett/bancas-api/internal/pkg/ratelimit"
	"github.com/superbett/bancas-api/internal/repository"
	"github.com/superbett/bancas-api/internal/repository/dao"
	"github.com/superbett/bancas-api/internal/scheduler"
	"github.com/superbett/bancas-api/internal/service"
)

const shutdownTimeout = 15 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	metrics.Init()

	postgresDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	defer func() {
		if err := db.Close(postgresDB); err != nil {
			zap.L().Warn("failed to close database", zap.Error(err))
		}
	}()

	if conf.Postgres.AutoMigrate {
		if err = dao.InitTables(postgresDB); err != nil {
			return fmt.Errorf("failed to migrate tables -> %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter, redisClient, err := newLoginLimiter(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize login throttle -> %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	s, err := api.NewServer(conf, postgresDB, limiter)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	reconciler, err := startReconciler(ctx, conf, postgresDB)
	if err != nil {
		return fmt.Errorf("failed to start reconciliation -> %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if reconciler != nil {
		reconciler.Stop(shutdownCtx)
	}
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// newLoginLimiter shares the throttle through redis when configured and keeps
// it in memory otherwise.
func newLoginLimiter(ctx context.Context, conf *config.AppConfig) (ratelimit.Limiter, *redis.Client, error) {
	if conf.Redis.URL == "" {
		return ratelimit.NewMemory(conf.Auth.LoginRatePerMinute, conf.Auth.LoginBurst), nil, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, conf.Redis.URL)
	if err != nil {
		return nil, nil, err
	}

	return ratelimit.NewRedis(client, conf.Auth.LoginRatePerMinute, time.Minute), client, nil
}

func startReconciler(ctx context.Context, conf *config.AppConfig, postgresDB *gorm.DB) (*scheduler.Reconciler, error) {
	if !conf.Scheduler.Enabled {
		zap.L().Info("round reconciliation disabled")
		return nil, nil
	}

	rounds := service.NewRoundService(repository.NewRoundRepository(dao.NewRoundDAO(postgresDB)))
	reconciler, err := scheduler.NewReconciler(rounds, conf.Scheduler, zap.L().Named("reconcile"))
	if err != nil {
		return nil, err
	}
	if err = reconciler.Start(); err != nil {
		return nil, err
	}

	if conf.Scheduler.RunOnStart {
		go reconciler.RunOnce(ctx)
	}

	return reconciler, nil
}
