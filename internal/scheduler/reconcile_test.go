package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/superbett/bancas-api/internal/config"
	"github.com/superbett/bancas-api/internal/domain"
)

type generatorFunc func(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error)

func (f generatorFunc) Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
	return f(ctx, date)
}

var testConf = &config.SchedulerConfig{Spec: "0 6 * * *", Timezone: "UTC"}

func newObserved(t *testing.T, gen Generator) (*Reconciler, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	r, err := NewReconciler(gen, testConf, zap.New(core))
	require.NoError(t, err)

	return r, logs
}

func TestReconciler_RunOnceLogsReportAndAlerts(t *testing.T) {
	var gotDate *string
	r, logs := newObserved(t, generatorFunc(func(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
		gotDate = &date
		return domain.GenerationReport{
			Date: "2024-05-01",
			Alerts: []domain.GenerationAlert{
				{Kind: "sin_horario", Lottery: "Nacional", Date: "2024-05-01", Message: "sin horario"},
				{Kind: "sin_horario", Lottery: "Leidsa", Date: "2024-05-01", Message: "sin horario"},
			},
		}, nil, nil
	}))

	r.RunOnce(context.Background())

	require.NotNil(t, gotDate)
	assert.Equal(t, "", *gotDate)
	assert.Equal(t, 1, logs.FilterMessage("rounds reconciled").Len())

	alerts := logs.FilterMessage("round reconciliation alert").All()
	require.Len(t, alerts, 2)
	assert.Equal(t, "Nacional", alerts[0].ContextMap()["loteria"])
	assert.Equal(t, zapcore.WarnLevel, alerts[0].Level)
}

func TestReconciler_RunOnceSwallowsErrors(t *testing.T) {
	r, logs := newObserved(t, generatorFunc(func(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
		return domain.GenerationReport{}, nil, errors.New("connection refused")
	}))

	assert.NotPanics(t, func() {
		r.RunOnce(context.Background())
	})

	failed := logs.FilterMessage("round reconciliation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "connection refused", failed[0].ContextMap()["error"])
}

func TestReconciler_RunOnceRecoversPanics(t *testing.T) {
	r, logs := newObserved(t, generatorFunc(func(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
		panic("boom")
	}))

	assert.NotPanics(t, func() {
		r.RunOnce(context.Background())
	})
	assert.Equal(t, 1, logs.FilterMessage("round reconciliation panicked").Len())
}

func TestNewReconciler_RejectsBadConfig(t *testing.T) {
	gen := generatorFunc(nil)

	_, err := NewReconciler(gen, &config.SchedulerConfig{Spec: "0 6 * * *", Timezone: "Mars/Olympus"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewReconciler(gen, &config.SchedulerConfig{Spec: "every morning", Timezone: "UTC"}, zap.NewNop())
	assert.Error(t, err)
}

func TestReconciler_StartStop(t *testing.T) {
	r, logs := newObserved(t, generatorFunc(func(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
		return domain.GenerationReport{}, nil, nil
	}))

	require.NoError(t, r.Start())
	assert.Equal(t, 1, logs.FilterMessage("round reconciliation scheduled").Len())
	assert.Len(t, r.cron.Entries(), 1)

	r.Stop(context.Background())
}
