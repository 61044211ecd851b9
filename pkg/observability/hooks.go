package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/luckydraw/pkg/domain"
)

// LoggingHooks logs every lifecycle event at info level (halts at warn).
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepLoad: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_load",
				"step", e.StepKey,
				"resource", e.Resource,
				"options", e.Options,
				"duration", e.Duration,
			)
		},
		OnDraw: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "draw", "step", e.StepKey, "value", e.Value)
		},
		OnCommit: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "commit", "step", e.StepKey, "value", e.Value, "position", e.Position)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.WarnContext(ctx, "halt", "step", e.StepKey, "resource", e.Resource, "err", e.Err)
		},
		OnComplete: func(ctx context.Context, entries []domain.Entry) {
			logger.InfoContext(ctx, "complete", "steps", len(entries))
		},
	}
}

// Chain merges hook sets; each event is delivered to every set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	out.OnStepLoad = chainStep(sets, func(h domain.LifecycleHooks) func(context.Context, *domain.StepEvent) { return h.OnStepLoad })
	out.OnDraw = chainStep(sets, func(h domain.LifecycleHooks) func(context.Context, *domain.StepEvent) { return h.OnDraw })
	out.OnCommit = chainStep(sets, func(h domain.LifecycleHooks) func(context.Context, *domain.StepEvent) { return h.OnCommit })

	var halts []func(context.Context, *domain.HaltEvent)
	var completes []func(context.Context, []domain.Entry)
	for _, s := range sets {
		if s.OnHalt != nil {
			halts = append(halts, s.OnHalt)
		}
		if s.OnComplete != nil {
			completes = append(completes, s.OnComplete)
		}
	}
	if len(halts) > 0 {
		out.OnHalt = func(ctx context.Context, e *domain.HaltEvent) {
			for _, fn := range halts {
				fn(ctx, e)
			}
		}
	}
	if len(completes) > 0 {
		out.OnComplete = func(ctx context.Context, entries []domain.Entry) {
			for _, fn := range completes {
				fn(ctx, entries)
			}
		}
	}
	return out
}

func chainStep(sets []domain.LifecycleHooks, pick func(domain.LifecycleHooks) func(context.Context, *domain.StepEvent)) func(context.Context, *domain.StepEvent) {
	var fns []func(context.Context, *domain.StepEvent)
	for _, s := range sets {
		if fn := pick(s); fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, e *domain.StepEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
