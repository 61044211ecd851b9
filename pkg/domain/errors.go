package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotReady is returned when a draw is requested before the current step was loaded.
	ErrNotReady = errors.New("current step has no loaded options")

	// ErrFlowComplete is returned when an operation needs a pending step but every step has a pick.
	ErrFlowComplete = errors.New("flow is complete")

	// ErrDrawInFlight is returned when a load is attempted while a drawn value awaits commit.
	ErrDrawInFlight = errors.New("draw in flight")

	// ErrLoadInFlight is returned when an operation overlaps a running load.
	ErrLoadInFlight = errors.New("load in flight")

	// ErrNoDrawInFlight is returned when commit is called without a preceding draw.
	ErrNoDrawInFlight = errors.New("no draw in flight")

	// ErrFlowReset is returned by a load whose flow was reset before the resource arrived.
	ErrFlowReset = errors.New("flow was reset during load")

	// ErrSessionNotFound is returned when a session ID cannot be found.
	ErrSessionNotFound = errors.New("session not found")
)

// ResolutionReason classifies a ResolutionError.
type ResolutionReason string

const (
	// ReasonMissingPick means the dependency has not been drawn yet (ordering violation).
	ReasonMissingPick ResolutionReason = "dependency not picked"
	// ReasonUnmapped means the picked value has no entry in the lookup table.
	ReasonUnmapped ResolutionReason = "value has no lookup entry"
	// ReasonUnknownTable means the step references a table the flow does not define.
	ReasonUnknownTable ResolutionReason = "unknown lookup table"
)

// ResolutionError signals a configuration/data defect while building a resource identifier.
type ResolutionError struct {
	StepKey   string
	DependsOn string
	Table     string
	Value     string
	Reason    ResolutionReason
}

func (e *ResolutionError) Error() string {
	switch e.Reason {
	case ReasonUnmapped:
		return fmt.Sprintf("resolve step %q: %s (%q=%q in table %q)", e.StepKey, e.Reason, e.DependsOn, e.Value, e.Table)
	case ReasonUnknownTable:
		return fmt.Sprintf("resolve step %q: %s %q", e.StepKey, e.Reason, e.Table)
	default:
		return fmt.Sprintf("resolve step %q: %s (%q)", e.StepKey, e.Reason, e.DependsOn)
	}
}

// RetrievalError signals that the resource for a step could not be retrieved.
type RetrievalError struct {
	StepKey  string
	Resource string
	Status   int // Non-zero when the retriever reported a status code
	Cause    error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("retrieve %q for step %q: status %d: %v", e.Resource, e.StepKey, e.Status, e.Cause)
	}
	return fmt.Sprintf("retrieve %q for step %q: %v", e.Resource, e.StepKey, e.Cause)
}

func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// EmptyOptionsError signals that a retrieved resource holds no candidates.
type EmptyOptionsError struct {
	StepKey  string
	Resource string
}

func (e *EmptyOptionsError) Error() string {
	return fmt.Sprintf("resource %q for step %q has no options", e.Resource, e.StepKey)
}

// HaltedError is returned by every forward operation once a load has failed.
// The flow must be reset to continue.
type HaltedError struct {
	StepKey string
	Cause   error
}

func (e *HaltedError) Error() string {
	return fmt.Sprintf("flow halted at step %q: %v", e.StepKey, e.Cause)
}

func (e *HaltedError) Unwrap() error {
	return e.Cause
}

// CommitMismatchError is returned when the committed value differs from the drawn one.
type CommitMismatchError struct {
	StepKey string
	Drawn   string
	Got     string
}

func (e *CommitMismatchError) Error() string {
	return fmt.Sprintf("commit for step %q: drawn %q, got %q", e.StepKey, e.Drawn, e.Got)
}

// FailedResource extracts the step key and resource identifier from a load failure,
// so a host can point at the defect.
func FailedResource(err error) (stepKey, resource string, ok bool) {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.StepKey, re.Resource, true
	}
	var ee *EmptyOptionsError
	if errors.As(err, &ee) {
		return ee.StepKey, ee.Resource, true
	}
	var res *ResolutionError
	if errors.As(err, &res) {
		return res.StepKey, "", true
	}
	return "", "", false
}

// ValidationError represents a single flow definition failure.
type ValidationError struct {
	Key    string // Field path
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
