/*
Package runner implements the interactive draw loop for a flow.

It acts as the bridge between the state machine and the outside world: for every
step it loads the candidates, shows them, waits for the user's trigger, draws,
pauses for the configured delay and commits, then prints the final report.
Interaction goes through a pluggable IOHandler so the same loop serves the
terminal (TextHandler) and machine consumers (JSONHandler, NDJSON events).

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithDelay(1500*time.Millisecond),
	)

	entries, err := r.Run(ctx, picker)
*/
package runner
