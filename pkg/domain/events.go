package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepLoad EventType = "step_load"
	EventDraw     EventType = "draw"
	EventCommit   EventType = "commit"
	EventHalt     EventType = "halt"
	EventComplete EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent represents a load, draw or commit on a step.
type StepEvent struct {
	EventBase
	Position int           `json:"position"`
	StepKey  string        `json:"step_key"`
	Resource string        `json:"resource,omitempty"`
	Options  int           `json:"options,omitempty"`
	Value    string        `json:"value,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// HaltEvent represents a load failure that halted the flow.
type HaltEvent struct {
	EventBase
	Position int    `json:"position"`
	StepKey  string `json:"step_key"`
	Resource string `json:"resource,omitempty"`
	Err      error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepLoad func(context.Context, *StepEvent)
	OnDraw     func(context.Context, *StepEvent)
	OnCommit   func(context.Context, *StepEvent)
	OnHalt     func(context.Context, *HaltEvent)
	OnComplete func(context.Context, []Entry)
}
