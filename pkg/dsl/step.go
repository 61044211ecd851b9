package dsl

import "github.com/aretw0/luckydraw/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.StepDefinition
	builder *Builder
}

// From sets the earlier step whose pick selects this step's resource.
func (s *StepBuilder) From(key string) *StepBuilder {
	s.step.DependsOn = key
	return s
}

// Via names the lookup table translating the pick into an identifier fragment.
func (s *StepBuilder) Via(table string) *StepBuilder {
	s.step.Table = table
	return s
}

// Map adds inline entries to a table named after the step and selects it.
func (s *StepBuilder) Map(entries map[string]string) *StepBuilder {
	s.builder.Table(s.step.Key, entries)
	s.step.Table = s.step.Key
	return s
}

// In sets the base directory of the composed identifier.
func (s *StepBuilder) In(dir string) *StepBuilder {
	s.step.Template.BaseDir = dir
	return s
}

// Sub sets the sub directory placed under the base directory.
func (s *StepBuilder) Sub(dir string) *StepBuilder {
	s.step.Template.SubDir = dir
	return s
}

// Prefix sets the file name prefix placed before the fragment.
func (s *StepBuilder) Prefix(p string) *StepBuilder {
	s.step.Template.Prefix = p
	return s
}

// Ext overrides the default ".txt" extension.
func (s *StepBuilder) Ext(ext string) *StepBuilder {
	s.step.Template.Extension = ext
	return s
}
