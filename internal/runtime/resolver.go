package runtime

import (
	"github.com/aretw0/luckydraw/pkg/domain"
)

// Resolver computes the concrete resource identifier of a step.
// Resolution is a pure function of the step and the picks: no I/O, no side effects.
type Resolver struct {
	tables map[string]domain.LookupTable
}

// NewResolver creates a resolver over the flow's lookup tables.
func NewResolver(tables map[string]domain.LookupTable) *Resolver {
	return &Resolver{tables: tables}
}

// Resolve returns the identifier for step given the picks so far.
// Static steps return their fixed path. Dynamic steps translate the dependency's
// picked value through the step's lookup table and compose the template.
func (r *Resolver) Resolve(step domain.StepDefinition, picks *domain.PickRecord) (string, error) {
	if !step.IsDynamic() {
		return step.Path, nil
	}

	value, ok := picks.Get(step.DependsOn)
	if !ok {
		return "", &domain.ResolutionError{
			StepKey:   step.Key,
			DependsOn: step.DependsOn,
			Table:     step.Table,
			Reason:    domain.ReasonMissingPick,
		}
	}

	table, ok := r.tables[step.Table]
	if !ok {
		return "", &domain.ResolutionError{
			StepKey:   step.Key,
			DependsOn: step.DependsOn,
			Table:     step.Table,
			Value:     value,
			Reason:    domain.ReasonUnknownTable,
		}
	}

	fragment, ok := table.Lookup(value)
	if !ok {
		return "", &domain.ResolutionError{
			StepKey:   step.Key,
			DependsOn: step.DependsOn,
			Table:     step.Table,
			Value:     value,
			Reason:    domain.ReasonUnmapped,
		}
	}

	return step.Template.Compose(fragment), nil
}
