package flow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"

	"github.com/aretw0/luckydraw/internal/dto"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the definition looked up inside a data directory.
const DefaultFileName = "flow.yaml"

// Parse decodes and validates a YAML flow definition.
func Parse(data []byte) (domain.Flow, error) {
	doc, err := decode(bytes.NewReader(data))
	if err != nil {
		return domain.Flow{}, err
	}
	return Build(doc)
}

// Load reads the definition at name from fsys.
func Load(fsys afero.Fs, name string) (domain.Flow, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return domain.Flow{}, fmt.Errorf("failed to read flow %s: %w", name, err)
	}
	f, err := Parse(data)
	if err != nil {
		return domain.Flow{}, fmt.Errorf("flow %s: %w", name, err)
	}
	return f, nil
}

// LoadFile reads a definition from the OS filesystem.
// An empty path means DefaultFileName inside dir.
func LoadFile(dir, path string) (domain.Flow, error) {
	if path == "" {
		path = filepath.Join(dir, DefaultFileName)
	}
	return Load(afero.NewOsFs(), path)
}

func decode(r io.Reader) (dto.FlowDocument, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return dto.FlowDocument{}, fmt.Errorf("failed to parse flow: empty document")
		}
		return dto.FlowDocument{}, fmt.Errorf("failed to parse flow: %w", err)
	}

	var doc dto.FlowDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return dto.FlowDocument{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return dto.FlowDocument{}, fmt.Errorf("failed to decode flow: %w", err)
	}
	return doc, nil
}

// Build converts a decoded document into a validated domain.Flow.
func Build(doc dto.FlowDocument) (domain.Flow, error) {
	f := domain.Flow{
		Name:   doc.Name,
		Steps:  make([]domain.StepDefinition, 0, len(doc.Steps)),
		Tables: make(map[string]domain.LookupTable, len(doc.Tables)),
	}
	for name, entries := range doc.Tables {
		f.Tables[name] = domain.LookupTable(maps.Clone(entries))
	}

	for _, s := range doc.Steps {
		step := domain.StepDefinition{
			Key:       s.Key,
			Kind:      domain.ResourceKind(s.Kind),
			Path:      s.Path,
			DependsOn: s.DependsOn,
			Table:     s.Table,
		}
		if step.Kind == "" {
			step.Kind = domain.KindStatic
			if s.DependsOn != "" {
				step.Kind = domain.KindDynamic
			}
		}
		if s.Template != nil {
			step.Template = domain.PathTemplate{
				BaseDir:   s.Template.BaseDir,
				SubDir:    s.Template.SubDir,
				Prefix:    s.Template.Prefix,
				Extension: s.Template.Extension,
			}
		}
		f.Steps = append(f.Steps, step)
	}

	if err := f.Validate(); err != nil {
		return domain.Flow{}, err
	}
	return f, nil
}
