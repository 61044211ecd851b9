package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Flow is the full, fixed configuration of a draw: the ordered steps and the
// lookup tables referenced by its dynamic steps.
type Flow struct {
	Name   string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Steps  []StepDefinition       `json:"steps" yaml:"steps"`
	Tables map[string]LookupTable `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// Keys returns the step keys in draw order.
func (f Flow) Keys() []string {
	keys := make([]string, len(f.Steps))
	for i, s := range f.Steps {
		keys[i] = s.Key
	}
	return keys
}

// Validate checks the structural invariants of the flow:
// unique non-empty keys, static steps with a path, and dynamic steps whose
// dependency is an earlier step and whose lookup table exists. No table may
// hold two keys with the same NFC form.
func (f Flow) Validate() error {
	var errs []error
	if len(f.Steps) == 0 {
		errs = append(errs, &ValidationError{Key: "steps", Reason: "flow has no steps"})
	}

	seen := make(map[string]int, len(f.Steps))
	for i, s := range f.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		if s.Key == "" {
			errs = append(errs, &ValidationError{Key: field, Reason: "missing key"})
			continue
		}
		if prev, dup := seen[s.Key]; dup {
			errs = append(errs, &ValidationError{Key: field, Reason: fmt.Sprintf("duplicate key %q (first at steps[%d])", s.Key, prev)})
			continue
		}

		switch s.Kind {
		case KindStatic:
			if s.Path == "" {
				errs = append(errs, &ValidationError{Key: field, Reason: fmt.Sprintf("static step %q has no path", s.Key)})
			}
		case KindDynamic:
			switch {
			case s.DependsOn == "":
				errs = append(errs, &ValidationError{Key: field, Reason: fmt.Sprintf("dynamic step %q has no dependency", s.Key)})
			case s.DependsOn == s.Key:
				errs = append(errs, &ValidationError{Key: field, Reason: fmt.Sprintf("step %q depends on itself", s.Key)})
			default:
				if _, ok := seen[s.DependsOn]; !ok {
					errs = append(errs, &ValidationError{Key: field, Reason: fmt.Sprintf("step %q depends on %q which is not an earlier step", s.Key, s.DependsOn)})
				}
			}
			if _, ok := f.Tables[s.Table]; !ok {
				errs = append(errs, &ValidationError{Key: field, Reason: fmt.Sprintf("step %q references unknown lookup table %q", s.Key, s.Table)})
			}
		default:
			errs = append(errs, &ValidationError{Key: field, Reason: "unknown resource kind", Value: s.Kind})
		}
		seen[s.Key] = i
	}

	for _, name := range slices.Sorted(maps.Keys(f.Tables)) {
		for _, keys := range f.Tables[name].collisions() {
			errs = append(errs, &ValidationError{
				Key:    "tables." + name,
				Reason: fmt.Sprintf("keys %q normalize to the same value", strings.Join(keys, `", "`)),
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
