package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/luckydraw/internal/presentation/report"
)

// TextHandler implements the terminal interface: one block per step, Enter to draw.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Highlight decorates drawn values; identity when nil.
	Highlight func(string) string

	reportOpts []report.Option

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer renders the final report as markdown through renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerReport configures the plain report layout.
func WithTextHandlerReport(opts ...report.Option) TextHandlerOption {
	return func(h *TextHandler) {
		h.reportOpts = opts
	}
}

// WithTextHandlerHighlight decorates drawn values (e.g. terminal colours).
func WithTextHandlerHighlight(fn func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Highlight = fn
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			if !h.send(inputResult{text: text}) {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				h.send(inputResult{err: err})
			}
			return
		}
	}
}

func (h *TextHandler) send(res inputResult) bool {
	select {
	case h.inputChan <- res:
		return true
	case <-h.done:
		return false
	}
}

// Close stops the input pump once its pending read returns.
func (h *TextHandler) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

func (h *TextHandler) Output(ctx context.Context, ev Event) (bool, error) {
	switch ev.Type {
	case EventStep:
		fmt.Fprintf(h.Writer, "\n[%d/%d] %s\n", ev.Position+1, ev.Total, ev.Step)
		fmt.Fprintf(h.Writer, "  %s\n", strings.Join(ev.Options, " | "))
		return true, nil
	case EventDraw:
		fmt.Fprintf(h.Writer, "  Drawn: %s\n", h.highlight(ev.Value))
	case EventCommit:
		// The draw line already shows the value.
	case EventHalt:
		if ev.Resource != "" {
			fmt.Fprintf(h.Writer, "\nLoad error (%s): check that resource %s exists.\n", ev.Step, ev.Resource)
		} else {
			fmt.Fprintf(h.Writer, "\nLoad error (%s): %s\n", ev.Step, ev.Error)
		}
		fmt.Fprintln(h.Writer, "The flow has stopped; restart to try again.")
	case EventComplete, EventAborted:
		if ev.Type == EventAborted {
			fmt.Fprintln(h.Writer, "\nStopped before the last step.")
		}
		fmt.Fprintln(h.Writer)
		h.writeReport(ev)
	}
	return false, nil
}

func (h *TextHandler) writeReport(ev Event) {
	if h.Renderer != nil {
		if rendered, err := h.Renderer(report.Markdown(ev.Entries, h.reportOpts...)); err == nil {
			fmt.Fprintln(h.Writer, strings.TrimRight(rendered, "\n"))
			return
		}
	}
	fmt.Fprint(h.Writer, report.Plain(ev.Entries, h.reportOpts...))
}

func (h *TextHandler) highlight(s string) string {
	if h.Highlight == nil {
		return s
	}
	return h.Highlight(s)
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	// Ensure the pump is running
	h.initPump()

	for {
		// Only show prompt if context is not yet done
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "Press Enter to draw (exit to quit) > ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return nil
}
