package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/superbett/bancas-api/internal/config"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/metrics"
)

const runTimeout = 5 * time.Minute

type Generator interface {
	Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error)
}

// Reconciler creates the day's jornadas once a day through generar_jornadas.
// The engine call is idempotent, so racing the engine's own trigger is harmless.
// A failed run is logged and the next one happens at the next tick.
type Reconciler struct {
	gen    Generator
	logger *zap.Logger
	cron   *cron.Cron
	spec   string
}

func NewReconciler(gen Generator, conf *config.SchedulerConfig, logger *zap.Logger) (*Reconciler, error) {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s) -> %w", conf.Timezone, err)
	}
	if _, err = cron.ParseStandard(conf.Spec); err != nil {
		return nil, fmt.Errorf("cron.ParseStandard(%s) -> %w", conf.Spec, err)
	}

	cl := cronLogger{logger.Sugar()}

	return &Reconciler{
		gen:    gen,
		logger: logger,
		spec:   conf.Spec,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}, nil
}

// RunOnce performs one reconciliation. It never returns an error and never panics.
func (r *Reconciler) RunOnce(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("round reconciliation panicked", zap.Any("panic", rec))
			metrics.ObserveReconciliation(fmt.Errorf("panic: %v", rec), 0)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	started := time.Now()
	report, _, err := r.gen.Generate(ctx, "")
	metrics.ObserveReconciliation(err, len(report.Alerts))
	if err != nil {
		r.logger.Error("round reconciliation failed", zap.Error(err), zap.Duration("took", time.Since(started)))
		return
	}

	r.logger.Info("rounds reconciled",
		zap.String("fecha", report.Date),
		zap.Int("alertas", len(report.Alerts)),
		zap.Duration("took", time.Since(started)))
	for _, a := range report.Alerts {
		r.logger.Warn("round reconciliation alert",
			zap.String("tipo", a.Kind),
			zap.String("loteria", a.Lottery),
			zap.String("fecha", a.Date),
			zap.String("mensaje", a.Message))
	}
}

// Start schedules the daily run and returns immediately.
func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc(r.spec, func() {
		r.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("r.cron.AddFunc -> %w", err)
	}

	r.cron.Start()
	r.logger.Info("round reconciliation scheduled", zap.String("spec", r.spec), zap.String("timezone", r.cron.Location().String()))

	return nil
}

// Stop halts the schedule and waits for a running job until ctx is done.
func (r *Reconciler) Stop(ctx context.Context) {
	done := r.cron.Stop()

	select {
	case <-done.Done():
	case <-ctx.Done():
		r.logger.Warn("round reconciliation still running at shutdown")
	}
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
