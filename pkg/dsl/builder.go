package dsl

import (
	"fmt"
	"maps"

	"github.com/aretw0/luckydraw/pkg/domain"
)

// Builder collects steps and lookup tables in declaration order.
type Builder struct {
	name   string
	steps  []*StepBuilder
	tables map[string]domain.LookupTable
}

// New creates a new flow builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		tables: make(map[string]domain.LookupTable),
	}
}

// Table registers (or extends) a named lookup table.
func (b *Builder) Table(name string, entries map[string]string) *Builder {
	table, ok := b.tables[name]
	if !ok {
		table = make(domain.LookupTable, len(entries))
		b.tables[name] = table
	}
	maps.Copy(table, entries)
	return b
}

// Static appends a step that always reads the resource at id.
func (b *Builder) Static(key, id string) *StepBuilder {
	return b.add(domain.Static(key, id))
}

// Dynamic appends a step whose resource is derived from an earlier pick.
// Configure it with From, Via and the template setters.
func (b *Builder) Dynamic(key string) *StepBuilder {
	return b.add(domain.StepDefinition{Key: key, Kind: domain.KindDynamic})
}

func (b *Builder) add(step domain.StepDefinition) *StepBuilder {
	sb := &StepBuilder{step: step, builder: b}
	b.steps = append(b.steps, sb)
	return sb
}

// Build returns the validated flow.
func (b *Builder) Build() (domain.Flow, error) {
	f := domain.Flow{
		Name:   b.name,
		Steps:  make([]domain.StepDefinition, 0, len(b.steps)),
		Tables: make(map[string]domain.LookupTable, len(b.tables)),
	}
	for _, sb := range b.steps {
		f.Steps = append(f.Steps, sb.step)
	}
	for name, table := range b.tables {
		f.Tables[name] = maps.Clone(table)
	}

	if err := f.Validate(); err != nil {
		return domain.Flow{}, fmt.Errorf("failed to build flow %q: %w", b.name, err)
	}
	return f, nil
}

// MustBuild is like Build but panics on an invalid flow.
func (b *Builder) MustBuild() domain.Flow {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}
