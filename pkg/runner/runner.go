package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/internal/presentation/report"
	"github.com/aretw0/luckydraw/pkg/domain"
)

// Flow is the part of the engine the runner drives.
type Flow interface {
	Steps() []domain.StepDefinition
	State() domain.FlowState
	Load(ctx context.Context) (domain.OptionList, error)
	Draw(ctx context.Context) (*domain.PickResult, error)
	Commit(ctx context.Context, value string) error
	IsComplete() bool
	Snapshot() []domain.Entry
}

// Runner handles the draw loop of a flow using provided IO.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	Headless bool
	Delay    time.Duration
	delaySet bool

	// Used only when building the default TextHandler.
	Renderer      ContentRenderer
	ReportOptions []report.Option
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run walks the flow until it is complete, the user quits, or a load fails.
//
// It returns the final snapshot. A load failure is returned as an error after the
// handler was told which step and resource failed; the flow must be restarted.
// Quitting ("exit", "quit" or end of input) is not an error.
func (r *Runner) Run(ctx context.Context, flow Flow) ([]domain.Entry, error) {
	handler := r.resolveHandler()
	delay := r.resolveDelay()
	total := len(flow.Steps())

	for !flow.IsComplete() {
		if err := ctx.Err(); err != nil {
			return flow.Snapshot(), err
		}

		st := flow.State()
		step := flow.Steps()[st.Position]

		options, err := flow.Load(ctx)
		if err != nil {
			return flow.Snapshot(), r.halt(ctx, handler, st.Position, total, step.Key, err)
		}

		needsInput, err := handler.Output(ctx, Event{
			Type:     EventStep,
			Position: st.Position,
			Total:    total,
			Step:     step.Key,
			Options:  options,
		})
		if err != nil {
			return flow.Snapshot(), fmt.Errorf("output error: %w", err)
		}

		if needsInput && !r.Headless {
			stop, err := r.awaitTrigger(ctx, handler)
			if err != nil {
				return flow.Snapshot(), err
			}
			if stop {
				entries := flow.Snapshot()
				r.Logger.Debug("run aborted by user", "step", step.Key)
				if _, err := handler.Output(ctx, Event{Type: EventAborted, Position: st.Position, Total: total, Entries: entries}); err != nil {
					return entries, fmt.Errorf("output error: %w", err)
				}
				return entries, nil
			}
		}

		res, err := flow.Draw(ctx)
		if err != nil {
			return flow.Snapshot(), fmt.Errorf("draw error: %w", err)
		}
		if res == nil {
			return flow.Snapshot(), fmt.Errorf("draw error: %w", domain.ErrDrawInFlight)
		}
		if _, err := handler.Output(ctx, Event{Type: EventDraw, Position: res.Position, Total: total, Step: res.StepKey, Value: res.Value}); err != nil {
			return flow.Snapshot(), fmt.Errorf("output error: %w", err)
		}

		if err := sleep(ctx, delay); err != nil {
			return flow.Snapshot(), err
		}

		if err := flow.Commit(ctx, res.Value); err != nil {
			return flow.Snapshot(), fmt.Errorf("commit error: %w", err)
		}
		if _, err := handler.Output(ctx, Event{Type: EventCommit, Position: res.Position, Total: total, Step: res.StepKey, Value: res.Value}); err != nil {
			return flow.Snapshot(), fmt.Errorf("output error: %w", err)
		}
	}

	entries := flow.Snapshot()
	if _, err := handler.Output(ctx, Event{Type: EventComplete, Position: total, Total: total, Entries: entries}); err != nil {
		return entries, fmt.Errorf("output error: %w", err)
	}
	return entries, nil
}

func (r *Runner) halt(ctx context.Context, handler IOHandler, position, total int, stepKey string, cause error) error {
	ev := Event{Type: EventHalt, Position: position, Total: total, Step: stepKey, Error: cause.Error()}
	if key, resource, ok := domain.FailedResource(cause); ok {
		ev.Step = key
		ev.Resource = resource
	}
	r.Logger.Debug("run halted", "step", ev.Step, "resource", ev.Resource, "err", cause)

	if _, err := handler.Output(ctx, ev); err != nil {
		return errors.Join(cause, fmt.Errorf("output error: %w", err))
	}
	return fmt.Errorf("step %q: %w", ev.Step, cause)
}

// awaitTrigger reads until the user presses Enter (any input) or asks to stop.
func (r *Runner) awaitTrigger(ctx context.Context, handler IOHandler) (bool, error) {
	val, err := handler.Input(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("input error: %w", err)
	}

	return ClassifyTrigger(val) == TriggerQuit, nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(os.Stdin, os.Stdout,
		WithTextHandlerRenderer(r.Renderer),
		WithTextHandlerReport(r.ReportOptions...),
	)
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}

func (r *Runner) resolveDelay() time.Duration {
	if r.delaySet {
		return r.Delay
	}
	if r.Headless {
		return 0
	}
	return DefaultDelay
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
