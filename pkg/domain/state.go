package domain

// Phase defines the current mode of the flow mechanics.
type Phase string

const (
	PhaseIdle     Phase = "idle"     // Waiting for the current step to be loaded
	PhaseLoading  Phase = "loading"  // Resource retrieval in progress
	PhaseReady    Phase = "ready"    // Options loaded, waiting for a draw
	PhaseDrawing  Phase = "drawing"  // A value was drawn, waiting for commit
	PhaseComplete Phase = "complete" // Every step has a pick
	PhaseHalted   Phase = "halted"   // A load failed; the flow must be restarted
)

// UnsetValue marks a step without a pick in a snapshot.
const UnsetValue = "unset"

// OptionList is the ordered list of candidates for the current step.
type OptionList []string

// FlowState represents a snapshot of the execution.
type FlowState struct {
	Phase Phase `json:"phase"`

	// Position is the index of the step being drawn.
	Position int `json:"position"`

	// Picks holds the values drawn so far, in step order.
	Picks map[string]string `json:"picks"`

	// DrawInFlight guards against a second draw before commit.
	DrawInFlight bool `json:"draw_in_flight"`

	// CurrentOptions is only valid for the step at Position.
	CurrentOptions OptionList `json:"current_options,omitempty"`

	// Halt holds the failure that halted the flow (if Phase == PhaseHalted).
	Halt error `json:"-"`
}

// PickResult is the outcome of a draw.
type PickResult struct {
	StepKey  string `json:"step_key"`
	Position int    `json:"position"`
	Index    int    `json:"index"`
	Value    string `json:"value"`
}

// Entry pairs a step key with its picked value, or UnsetValue.
type Entry struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Picked bool   `json:"picked"`
}
