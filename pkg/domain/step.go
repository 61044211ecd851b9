package domain

import (
	"fmt"
	"path"
)

// DefaultExtension is appended to dynamic identifiers when the template does not set one.
const DefaultExtension = ".txt"

// ResourceKind defines how a step finds its candidate resource.
type ResourceKind string

const (
	// KindStatic steps always read the same resource.
	KindStatic ResourceKind = "static"
	// KindDynamic steps build their resource identifier from an earlier pick.
	KindDynamic ResourceKind = "dynamic"
)

// PathTemplate describes how a dynamic identifier is composed:
// BaseDir/SubDir/<Prefix><fragment><Extension>.
type PathTemplate struct {
	BaseDir   string `json:"base_dir,omitempty" yaml:"base_dir,omitempty"`
	SubDir    string `json:"sub_dir,omitempty" yaml:"sub_dir,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`
}

// Compose builds the identifier for a resolved fragment.
func (t PathTemplate) Compose(fragment string) string {
	ext := t.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return path.Join(t.BaseDir, t.SubDir, t.Prefix+fragment+ext)
}

// StepDefinition represents one attribute to be drawn.
// It is immutable once the flow has been built.
type StepDefinition struct {
	// Key is the unique, stable label of the step (e.g. "Brand").
	Key  string       `json:"key" yaml:"key"`
	Kind ResourceKind `json:"kind" yaml:"kind"`

	// Path is the fixed resource identifier of a static step.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Dynamic configuration (Optional, used if Kind == KindDynamic)
	DependsOn string       `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Table     string       `json:"table,omitempty" yaml:"table,omitempty"`
	Template  PathTemplate `json:"template,omitempty" yaml:"template,omitempty"`
}

// Static creates a step that always reads the resource at id.
func Static(key, id string) StepDefinition {
	return StepDefinition{Key: key, Kind: KindStatic, Path: id}
}

// Dynamic creates a step whose resource depends on the value picked for dependsOn,
// translated through the named lookup table.
func Dynamic(key, dependsOn, table string, tmpl PathTemplate) StepDefinition {
	return StepDefinition{
		Key:       key,
		Kind:      KindDynamic,
		DependsOn: dependsOn,
		Table:     table,
		Template:  tmpl,
	}
}

// IsDynamic reports whether the step needs a prior pick to resolve.
func (s StepDefinition) IsDynamic() bool {
	return s.Kind == KindDynamic
}

func (s StepDefinition) String() string {
	if s.IsDynamic() {
		return fmt.Sprintf("%s (dynamic on %q via %q)", s.Key, s.DependsOn, s.Table)
	}
	return fmt.Sprintf("%s (%s)", s.Key, s.Path)
}
