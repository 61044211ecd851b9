package luckydraw

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/internal/runtime"
	"github.com/aretw0/luckydraw/pkg/adapters/file"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/flow"
	"github.com/aretw0/luckydraw/pkg/ports"
)

// Picker is the high-level entry point for the luckydraw library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Picker struct {
	runtime   *runtime.Engine
	retriever ports.Retriever
	flow      domain.Flow
	flowSet   bool
	flowFile  string
	random    ports.Randomizer
	seed      *uint64
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	dataDir   string
	Name      string
}

// Option defines a functional option for configuring the Picker.
type Option func(*Picker)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Picker) {
		p.hooks = hooks
	}
}

// WithRetriever injects a custom resource source, bypassing the data directory.
func WithRetriever(r ports.Retriever) Option {
	return func(p *Picker) {
		p.retriever = r
	}
}

// WithFlow uses an in-memory flow (e.g. built with package dsl) instead of flow.yaml.
func WithFlow(f domain.Flow) Option {
	return func(p *Picker) {
		p.flow = f
		p.flowSet = true
	}
}

// WithFlowFile reads the flow definition from path instead of <dataDir>/flow.yaml.
func WithFlowFile(path string) Option {
	return func(p *Picker) {
		p.flowFile = path
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Picker) {
		p.logger = logger
	}
}

// WithRandomizer replaces the random source used by draws.
// Spawned Pickers share r; calls into it are serialized, so r need not be
// safe for concurrent use.
func WithRandomizer(r ports.Randomizer) Option {
	return func(p *Picker) {
		p.random = r
	}
}

// WithSeed makes the sequence of draws reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Picker) {
		p.seed = &seed
	}
}

// New initializes a Picker.
// By default it reads <dataDir>/flow.yaml and retrieves resources from files under dataDir.
// With WithFlow and WithRetriever, dataDir can be empty.
func New(dataDir string, opts ...Option) (*Picker, error) {
	p := &Picker{dataDir: dataDir}
	for _, opt := range opts {
		opt(p)
	}

	if !p.flowSet {
		if dataDir == "" && p.flowFile == "" {
			return nil, fmt.Errorf("dataDir is required when no flow is provided")
		}
		f, err := flow.LoadFile(dataDir, p.flowFile)
		if err != nil {
			return nil, err
		}
		p.flow = f
	}

	if p.retriever == nil {
		if dataDir == "" {
			return nil, fmt.Errorf("dataDir is required when no custom retriever is provided")
		}
		absPath, err := filepath.Abs(dataDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		p.retriever = file.New(absPath)
	}

	if p.random != nil {
		p.random = &lockedRandomizer{r: p.random}
	}

	p.Name = p.flow.Name
	if p.Name == "" && dataDir != "" {
		p.Name = filepath.Base(dataDir)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.Name != "" {
		p.logger = p.logger.With("flow", p.Name)
	}

	eng, err := p.newRuntime()
	if err != nil {
		return nil, err
	}
	p.runtime = eng
	return p, nil
}

func (p *Picker) newRuntime() (*runtime.Engine, error) {
	opts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(p.hooks),
		runtime.WithLogger(p.logger),
	}
	switch {
	case p.random != nil:
		opts = append(opts, runtime.WithRandomizer(p.random))
	case p.seed != nil:
		opts = append(opts, runtime.WithSeed(*p.seed))
	}
	return runtime.NewEngine(p.flow, p.retriever, opts...)
}

// Spawn returns an independent Picker for the same flow and resources, starting
// from the first step. Hosts use it to give each session its own state.
// A seeded Picker spawns copies that repeat the same sequence.
func (p *Picker) Spawn() (*Picker, error) {
	clone := *p
	eng, err := clone.newRuntime()
	if err != nil {
		return nil, err
	}
	clone.runtime = eng
	return &clone, nil
}

// Load resolves, retrieves and parses the candidates of the current step.
func (p *Picker) Load(ctx context.Context) (domain.OptionList, error) {
	return p.runtime.Load(ctx)
}

// Draw picks one of the current candidates. It returns (nil, nil) while a draw is in flight.
func (p *Picker) Draw(ctx context.Context) (*domain.PickResult, error) {
	return p.runtime.Draw(ctx)
}

// Commit records the drawn value and advances to the next step.
func (p *Picker) Commit(ctx context.Context, value string) error {
	return p.runtime.Commit(ctx, value)
}

// IsComplete reports whether every step has a pick.
func (p *Picker) IsComplete() bool {
	return p.runtime.IsComplete()
}

// Snapshot pairs every step key with its pick or domain.UnsetValue.
func (p *Picker) Snapshot() []domain.Entry {
	return p.runtime.Snapshot()
}

// State returns a copy of the current flow state.
func (p *Picker) State() domain.FlowState {
	return p.runtime.State()
}

// Steps returns the step definitions in draw order.
func (p *Picker) Steps() []domain.StepDefinition {
	return p.runtime.Steps()
}

// Current returns the step being drawn, or false when complete.
func (p *Picker) Current() (domain.StepDefinition, bool) {
	return p.runtime.Current()
}

// Reset restarts the flow from the first step.
func (p *Picker) Reset() {
	p.runtime.Reset()
}

// Flow returns the definition the Picker was built from.
func (p *Picker) Flow() domain.Flow {
	return p.flow
}

// Retriever returns the resource source used by the Picker.
func (p *Picker) Retriever() ports.Retriever {
	return p.retriever
}

// lockedRandomizer serializes a caller-supplied source across spawned engines.
type lockedRandomizer struct {
	mu sync.Mutex
	r  ports.Randomizer
}

func (l *lockedRandomizer) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
