package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/ports"
)

// Engine is the core state machine of a draw flow.
//
// It walks the steps in order: Load resolves and retrieves the current step's
// candidates, Draw picks one of them uniformly at random, and Commit records the
// pick and advances. At most one draw is in flight at a time.
type Engine struct {
	steps     []domain.StepDefinition
	resolver  *Resolver
	retriever ports.Retriever
	random    ports.Randomizer
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	mu         sync.Mutex
	phase      domain.Phase
	position   int
	picks      *domain.PickRecord
	options    domain.OptionList
	resource   string
	drawn      *domain.PickResult
	halt       error
	generation uint64
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRandomizer replaces the default random source.
func WithRandomizer(r ports.Randomizer) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.random = r
		}
	}
}

// WithSeed makes draws reproducible.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.random = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewEngine creates a new engine for the flow. The flow is validated first.
func NewEngine(flow domain.Flow, retriever ports.Retriever, opts ...EngineOption) (*Engine, error) {
	if err := flow.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flow: %w", err)
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}

	steps := make([]domain.StepDefinition, len(flow.Steps))
	copy(steps, flow.Steps)

	e := &Engine{
		steps:     steps,
		resolver:  NewResolver(flow.Tables),
		retriever: retriever,
		random:    ports.RandomizerFunc(rand.IntN),
		logger:    logging.NewNop(),
		phase:     domain.PhaseIdle,
		picks:     domain.NewPickRecord(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Steps returns the step definitions in draw order.
func (e *Engine) Steps() []domain.StepDefinition {
	out := make([]domain.StepDefinition, len(e.steps))
	copy(out, e.steps)
	return out
}

// Current returns the step at the current position, or false when complete.
func (e *Engine) Current() (domain.StepDefinition, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.position >= len(e.steps) {
		return domain.StepDefinition{}, false
	}
	return e.steps[e.position], true
}

// IsComplete reports whether every step has a pick.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position >= len(e.steps)
}

// State returns a copy of the current flow state.
func (e *Engine) State() domain.FlowState {
	e.mu.Lock()
	defer e.mu.Unlock()

	var options domain.OptionList
	if e.options != nil {
		options = make(domain.OptionList, len(e.options))
		copy(options, e.options)
	}
	return domain.FlowState{
		Phase:          e.phase,
		Position:       e.position,
		Picks:          e.picks.Map(),
		DrawInFlight:   e.phase == domain.PhaseDrawing,
		CurrentOptions: options,
		Halt:           e.halt,
	}
}

// Snapshot pairs every step key, in draw order, with its picked value
// or domain.UnsetValue.
func (e *Engine) Snapshot() []domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() []domain.Entry {
	entries := make([]domain.Entry, len(e.steps))
	for i, step := range e.steps {
		entries[i] = domain.Entry{Key: step.Key, Value: domain.UnsetValue}
		if v, ok := e.picks.Get(step.Key); ok {
			entries[i].Value = v
			entries[i].Picked = true
		}
	}
	return entries
}

// Reset restarts the flow from the first step, discarding picks and any halt.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.phase = domain.PhaseIdle
	e.position = 0
	e.picks = domain.NewPickRecord()
	e.options = nil
	e.resource = ""
	e.drawn = nil
	e.halt = nil
	e.generation++
	e.logger.Debug("flow reset")
}

// Load resolves, retrieves and parses the candidates of the current step.
//
// Calling it again before a draw re-fetches the resource. A resolution,
// retrieval or empty-options failure halts the flow: further loads and draws
// return *domain.HaltedError until Reset. If ctx ends while the resource is
// in flight, the ctx error is returned and the step is left idle.
func (e *Engine) Load(ctx context.Context) (domain.OptionList, error) {
	e.mu.Lock()
	if err := e.checkLoadableLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	step := e.steps[e.position]
	position := e.position
	generation := e.generation
	picks := e.picks.Clone()
	e.phase = domain.PhaseLoading
	e.options = nil
	e.resource = ""
	e.mu.Unlock()

	start := time.Now()
	options, resource, loadErr := e.fetch(ctx, step, picks)

	e.mu.Lock()
	if e.generation != generation {
		e.mu.Unlock()
		return nil, domain.ErrFlowReset
	}
	if loadErr != nil && ctx.Err() != nil {
		// The caller went away; the step stays loadable.
		e.phase = domain.PhaseIdle
		e.mu.Unlock()

		e.logger.Debug("step load abandoned", "step", step.Key, "resource", resource, "err", ctx.Err())
		return nil, ctx.Err()
	}
	if loadErr != nil {
		e.phase = domain.PhaseHalted
		e.halt = loadErr
		e.mu.Unlock()

		e.logger.Debug("step load failed", "step", step.Key, "resource", resource, "err", loadErr)
		e.emitHalt(ctx, position, step.Key, resource, loadErr)
		return nil, loadErr
	}
	e.phase = domain.PhaseReady
	e.options = options
	e.resource = resource
	out := make(domain.OptionList, len(options))
	copy(out, options)
	e.mu.Unlock()

	e.logger.Debug("step loaded", "step", step.Key, "resource", resource, "options", len(options))
	e.emitStep(ctx, e.hooks.OnStepLoad, domain.EventStepLoad, &domain.StepEvent{
		Position: position,
		StepKey:  step.Key,
		Resource: resource,
		Options:  len(options),
		Duration: time.Since(start),
	})
	return out, nil
}

func (e *Engine) checkLoadableLocked() error {
	switch e.phase {
	case domain.PhaseComplete:
		return domain.ErrFlowComplete
	case domain.PhaseHalted:
		return &domain.HaltedError{StepKey: e.steps[e.position].Key, Cause: e.halt}
	case domain.PhaseDrawing:
		return domain.ErrDrawInFlight
	case domain.PhaseLoading:
		return domain.ErrLoadInFlight
	}
	return nil
}

// fetch runs outside the lock: resolve -> retrieve -> parse.
func (e *Engine) fetch(ctx context.Context, step domain.StepDefinition, picks *domain.PickRecord) (domain.OptionList, string, error) {
	resource, err := e.resolver.Resolve(step, picks)
	if err != nil {
		return nil, "", err
	}

	text, err := e.retriever.Retrieve(ctx, resource)
	if err != nil {
		retrievalErr := &domain.RetrievalError{StepKey: step.Key, Resource: resource, Cause: err}
		var coded interface{ StatusCode() int }
		if errors.As(err, &coded) {
			retrievalErr.Status = coded.StatusCode()
		}
		return nil, resource, retrievalErr
	}

	options := ParseOptions(text)
	if len(options) == 0 {
		return nil, resource, &domain.EmptyOptionsError{StepKey: step.Key, Resource: resource}
	}
	return options, resource, nil
}

// Draw picks one of the current options uniformly at random.
//
// If a draw is already in flight it is a no-op and returns (nil, nil): repeated
// triggers while busy are ignored. The drawn value must be passed to Commit.
func (e *Engine) Draw(ctx context.Context) (*domain.PickResult, error) {
	e.mu.Lock()
	switch e.phase {
	case domain.PhaseDrawing:
		e.mu.Unlock()
		e.logger.Debug("draw ignored: already in flight")
		return nil, nil
	case domain.PhaseComplete:
		e.mu.Unlock()
		return nil, domain.ErrFlowComplete
	case domain.PhaseHalted:
		err := &domain.HaltedError{StepKey: e.steps[e.position].Key, Cause: e.halt}
		e.mu.Unlock()
		return nil, err
	}
	if e.phase != domain.PhaseReady || len(e.options) == 0 {
		e.mu.Unlock()
		return nil, domain.ErrNotReady
	}

	idx := e.random.IntN(len(e.options))
	if idx < 0 || idx >= len(e.options) {
		e.mu.Unlock()
		return nil, fmt.Errorf("randomizer returned index %d outside [0, %d)", idx, len(e.options))
	}

	result := domain.PickResult{
		StepKey:  e.steps[e.position].Key,
		Position: e.position,
		Index:    idx,
		Value:    e.options[idx],
	}
	e.drawn = &result
	e.phase = domain.PhaseDrawing
	resource := e.resource
	e.mu.Unlock()

	e.logger.Debug("value drawn", "step", result.StepKey, "value", result.Value, "index", idx)
	e.emitStep(ctx, e.hooks.OnDraw, domain.EventDraw, &domain.StepEvent{
		Position: result.Position,
		StepKey:  result.StepKey,
		Resource: resource,
		Value:    result.Value,
	})
	return &result, nil
}

// Commit records the drawn value for the current step and advances.
// value must be the one returned by the preceding Draw.
func (e *Engine) Commit(ctx context.Context, value string) error {
	e.mu.Lock()
	if e.phase != domain.PhaseDrawing || e.drawn == nil {
		e.mu.Unlock()
		return domain.ErrNoDrawInFlight
	}
	step := e.steps[e.position]
	if value != e.drawn.Value {
		err := &domain.CommitMismatchError{StepKey: step.Key, Drawn: e.drawn.Value, Got: value}
		e.mu.Unlock()
		return err
	}

	e.picks.Set(step.Key, value)
	position := e.position
	e.position++
	e.options = nil
	e.resource = ""
	e.drawn = nil

	var final []domain.Entry
	if e.position >= len(e.steps) {
		e.phase = domain.PhaseComplete
		final = e.snapshotLocked()
	} else {
		e.phase = domain.PhaseIdle
	}
	e.mu.Unlock()

	e.logger.Debug("pick committed", "step", step.Key, "value", value, "position", position)
	e.emitStep(ctx, e.hooks.OnCommit, domain.EventCommit, &domain.StepEvent{
		Position: position,
		StepKey:  step.Key,
		Value:    value,
	})
	if final != nil {
		e.logger.Debug("flow complete", "steps", len(final))
		if e.hooks.OnComplete != nil {
			e.hooks.OnComplete(ctx, final)
		}
	}
	return nil
}

func (e *Engine) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), typ domain.EventType, ev *domain.StepEvent) {
	if hook == nil {
		return
	}
	ev.EventBase = domain.EventBase{Timestamp: time.Now(), Type: typ}
	hook(ctx, ev)
}

func (e *Engine) emitHalt(ctx context.Context, position int, key, resource string, err error) {
	if e.hooks.OnHalt == nil {
		return
	}
	e.hooks.OnHalt(ctx, &domain.HaltEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt},
		Position:  position,
		StepKey:   key,
		Resource:  resource,
		Err:       err,
	})
}
