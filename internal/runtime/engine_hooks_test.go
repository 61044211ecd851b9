package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/luckydraw/internal/runtime"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var (
		loads, draws, commits []string
		halted                *domain.HaltEvent
		final                 []domain.Entry
	)

	hooks := domain.LifecycleHooks{
		OnStepLoad: func(ctx context.Context, e *domain.StepEvent) {
			assert.Equal(t, domain.EventStepLoad, e.Type)
			loads = append(loads, e.StepKey+"@"+e.Resource)
		},
		OnDraw: func(ctx context.Context, e *domain.StepEvent) {
			draws = append(draws, e.Value)
		},
		OnCommit: func(ctx context.Context, e *domain.StepEvent) {
			commits = append(commits, e.StepKey)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			halted = e
		},
		OnComplete: func(ctx context.Context, entries []domain.Entry) {
			final = entries
		},
	}

	data := map[string]string{
		"brands.txt":      "Asus\n",
		"series_asus.txt": "ROG Phone\n",
	}
	engine := newEngine(t, brandSeriesFlow(), data, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	for !engine.IsComplete() {
		_, err := engine.Load(ctx)
		require.NoError(t, err)
		res, err := engine.Draw(ctx)
		require.NoError(t, err)
		require.NoError(t, engine.Commit(ctx, res.Value))
	}

	assert.Equal(t, []string{"brand@brands.txt", "series@series_asus.txt"}, loads)
	assert.Equal(t, []string{"Asus", "ROG Phone"}, draws)
	assert.Equal(t, []string{"brand", "series"}, commits)
	assert.Nil(t, halted)
	assert.Equal(t, []domain.Entry{
		{Key: "brand", Value: "Asus", Picked: true},
		{Key: "series", Value: "ROG Phone", Picked: true},
	}, final)
}

func TestEngine_HaltHook(t *testing.T) {
	var halted *domain.HaltEvent
	hooks := domain.LifecycleHooks{
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) { halted = e },
	}

	engine := newEngine(t, brandSeriesFlow(), map[string]string{}, runtime.WithLifecycleHooks(hooks))
	_, err := engine.Load(context.Background())
	require.Error(t, err)

	require.NotNil(t, halted)
	assert.Equal(t, "brand", halted.StepKey)
	assert.Equal(t, "brands.txt", halted.Resource)
	assert.ErrorIs(t, halted.Err, err)
}

func TestEngine_HooksMayReenter(t *testing.T) {
	var engine *runtime.Engine
	var seen domain.Phase
	hooks := domain.LifecycleHooks{
		OnDraw: func(ctx context.Context, e *domain.StepEvent) {
			// Hooks run outside the engine lock.
			seen = engine.State().Phase
		},
	}
	engine = newEngine(t, brandSeriesFlow(), map[string]string{"brands.txt": "Asus\n"}, runtime.WithLifecycleHooks(hooks))

	_, err := engine.Load(context.Background())
	require.NoError(t, err)
	_, err = engine.Draw(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseDrawing, seen)
}
