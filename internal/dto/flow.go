package dto

// FlowDocument is the on-disk shape of a flow definition.
// It uses "mapstructure" tags so YAML and JSON sources decode the same way.
type FlowDocument struct {
	Name   string                       `json:"name" mapstructure:"name"`
	Tables map[string]map[string]string `json:"tables" mapstructure:"tables"`
	Steps  []StepDocument               `json:"steps" mapstructure:"steps"`
}

type StepDocument struct {
	Key string `json:"key" mapstructure:"key"`
	// Kind is optional: a step with depends_on is dynamic, otherwise static.
	Kind string `json:"kind,omitempty" mapstructure:"kind"`
	Path string `json:"path,omitempty" mapstructure:"path"`

	DependsOn string            `json:"depends_on,omitempty" mapstructure:"depends_on"`
	Table     string            `json:"table,omitempty" mapstructure:"table"`
	Template  *TemplateDocument `json:"template,omitempty" mapstructure:"template"`
}

type TemplateDocument struct {
	BaseDir   string `json:"base_dir,omitempty" mapstructure:"base_dir"`
	SubDir    string `json:"sub_dir,omitempty" mapstructure:"sub_dir"`
	Prefix    string `json:"prefix,omitempty" mapstructure:"prefix"`
	Extension string `json:"extension,omitempty" mapstructure:"extension"`
}
