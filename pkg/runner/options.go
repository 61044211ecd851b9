package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/luckydraw/internal/presentation/report"
)

// DefaultDelay is the pause between a draw and its commit in interactive mode.
const DefaultDelay = 1500 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless draws without waiting for triggers and, unless WithDelay is
// given, without pausing.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithDelay sets the pause between draw and commit. Negative values mean zero.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.Delay = max(d, 0)
		r.delaySet = true
	}
}

// WithReportOptions configures the final report layout of the default text handler.
func WithReportOptions(opts ...report.Option) Option {
	return func(r *Runner) {
		r.ReportOptions = opts
	}
}

// WithRenderer configures the markdown renderer of the default text handler.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}
