package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
)

// JSONHandler implements the IOHandler interface for newline-delimited JSON:
// every event is one JSON object per line; triggers are read one line at a time.
type JSONHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	// Interactive makes step events wait for a trigger line.
	Interactive bool

	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO. It never waits for triggers
// unless Interactive is set.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, ev Event) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.encoder.Encode(ev); err != nil {
		return false, err
	}
	return h.Interactive && ev.Type == EventStep, nil
}

// Input reads one line: either a JSON string ("exit") or raw text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(map[string]string{"type": "system", "message": msg})
}
