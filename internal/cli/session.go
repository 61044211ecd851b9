package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/luckydraw"
	"github.com/aretw0/luckydraw/internal/presentation/tui"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/observability"
	"github.com/aretw0/luckydraw/pkg/runner"
)

// RunSession walks one flow from the first step to the report.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)
	out := opts.stdout()

	if !opts.JSON && !opts.Headless {
		tui.PrintBanner(out)
	}

	var hooks domain.LifecycleHooks
	if opts.Debug {
		hooks = observability.LoggingHooks(logger)
	}

	picker, cleanup, err := createPicker(opts.DataDir, opts.FlowFile, opts.Seed, opts.SourceOptions, logger, hooks)
	if err != nil {
		return err
	}
	defer cleanup()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	handler, closeHandler := createHandler(opts, out)
	defer closeHandler()

	r := runner.NewRunner(createRunnerOptions(opts, logger, handler)...)
	_, runErr := r.Run(sigCtx, picker)

	// If context was canceled (signal received), ensure runErr reflects it if it doesn't already
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	if !opts.JSON {
		logCompletion(out, currentKey(picker), runErr, sigCtx.Signal())
	}
	return handleExecutionError(runErr)
}

// createHandler picks the IO strategy: NDJSON, or text with terminal extras when out is a TTY.
func createHandler(opts RunOptions, out io.Writer) (runner.IOHandler, func()) {
	if opts.JSON {
		h := runner.NewJSONHandler(opts.stdin(), out)
		h.Interactive = !opts.Headless
		return h, func() {}
	}

	textOpts := []runner.TextHandlerOption{
		runner.WithTextHandlerReport(opts.Report.build()...),
	}
	if tui.IsTerminal(out) {
		textOpts = append(textOpts,
			runner.WithTextHandlerRenderer(runner.ContentRenderer(tui.NewRenderer(out))),
			runner.WithTextHandlerHighlight(func(s string) string { return tui.Highlight(out, s) }),
		)
	}
	h := runner.NewTextHandler(opts.stdin(), out, textOpts...)
	return h, func() { _ = h.Close() }
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(opts RunOptions, logger *slog.Logger, handler runner.IOHandler) []runner.Option {
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithHeadless(opts.Headless),
		runner.WithInputHandler(handler),
		runner.WithReportOptions(opts.Report.build()...),
	}
	if opts.DelaySet {
		runnerOpts = append(runnerOpts, runner.WithDelay(opts.Delay))
	}
	return runnerOpts
}

func currentKey(p *luckydraw.Picker) string {
	if step, ok := p.Current(); ok {
		return step.Key
	}
	return "end"
}
