package runner

import (
	"context"

	"github.com/aretw0/luckydraw/pkg/domain"
)

// EventType names what an Event reports.
type EventType string

const (
	EventStep     EventType = "step"     // Options loaded, waiting for the trigger
	EventDraw     EventType = "draw"     // A value was drawn
	EventCommit   EventType = "commit"   // The drawn value was recorded
	EventHalt     EventType = "halt"     // A load failed; the run stops
	EventComplete EventType = "complete" // Every step has a pick
	EventAborted  EventType = "aborted"  // The user quit before the end
)

// Event is what the runner presents to the user.
type Event struct {
	Type     EventType         `json:"type"`
	Position int               `json:"position"`
	Total    int               `json:"total"`
	Step     string            `json:"step,omitempty"`
	Resource string            `json:"resource,omitempty"`
	Options  domain.OptionList `json:"options,omitempty"`
	Value    string            `json:"value,omitempty"`
	Entries  []domain.Entry    `json:"entries,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents an event to the user.
	// Returns true if the handler expects to read a trigger after this.
	Output(ctx context.Context, ev Event) (bool, error)

	// Input blocks until the user triggers the draw and returns what was typed.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (status, warnings) to the user.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written (e.g. glamour to ANSI).
type ContentRenderer func(string) (string, error)
