package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStepLoad(ctx, &domain.StepEvent{StepKey: "Brand", Options: 3, Duration: 20 * time.Millisecond})
	hooks.OnDraw(ctx, &domain.StepEvent{StepKey: "Brand", Value: "Asus"})
	hooks.OnCommit(ctx, &domain.StepEvent{StepKey: "Brand", Value: "Asus"})
	hooks.OnHalt(ctx, &domain.HaltEvent{StepKey: "Series", Err: errors.New("boom")})
	hooks.OnComplete(ctx, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepLoads.WithLabelValues("Brand")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Draws.WithLabelValues("Brand")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commits.WithLabelValues("Brand")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Halts.WithLabelValues("Series")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completed))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LoadDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LoggingHooks(logging.NewWithWriter(&buf, slog.LevelInfo, false))

	hooks.OnDraw(context.Background(), &domain.StepEvent{StepKey: "Brand", Value: "Asus"})
	hooks.OnHalt(context.Background(), &domain.HaltEvent{StepKey: "Series", Resource: "series_mi.txt", Err: errors.New("missing")})

	out := buf.String()
	assert.Contains(t, out, "msg=draw step=Brand value=Asus")
	assert.Contains(t, out, "level=WARN msg=halt step=Series resource=series_mi.txt err=missing")
}

func TestChain(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnDraw: func(context.Context, *domain.StepEvent) { calls = append(calls, "first") },
	}
	second := domain.LifecycleHooks{
		OnDraw:     func(context.Context, *domain.StepEvent) { calls = append(calls, "second") },
		OnComplete: func(context.Context, []domain.Entry) { calls = append(calls, "complete") },
	}

	hooks := observability.Chain(first, domain.LifecycleHooks{}, second)
	require.NotNil(t, hooks.OnDraw)
	assert.Nil(t, hooks.OnStepLoad)
	assert.Nil(t, hooks.OnHalt)

	hooks.OnDraw(context.Background(), &domain.StepEvent{})
	hooks.OnComplete(context.Background(), nil)
	assert.Equal(t, []string{"first", "second", "complete"}, calls)
}
