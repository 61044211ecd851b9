package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/internal/presentation/graph"
	"github.com/aretw0/luckydraw/internal/validator"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/flow"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	DataDir  string
	FlowFile string
	// Resources also crawls every resource the flow can reach.
	Resources bool
	SourceOptions
}

// Validate checks the flow definition and, optionally, its resources.
// Resources are read from the configured source, as a run would read them.
func Validate(ctx context.Context, opts ValidateOptions, w io.Writer) error {
	picker, cleanup, err := createPicker(opts.DataDir, opts.FlowFile, nil, opts.SourceOptions, logging.NewNop(), domain.LifecycleHooks{})
	defer cleanup()
	if err != nil {
		return err
	}
	f := picker.Flow()
	fmt.Fprintf(w, "Flow %q: %d steps, %d lookup tables.\n", f.Name, len(f.Steps), len(f.Tables))

	if !opts.Resources {
		return nil
	}

	report, err := validator.ValidateResources(ctx, f, picker.Retriever())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Checked %d resources.\n", len(report.Resources))
	return report.Err()
}

// Graph writes the Mermaid diagram of the flow.
func Graph(dataDir, flowFile string, w io.Writer) error {
	f, err := flow.LoadFile(dataDir, flowFile)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(f.Steps, nil))
	return err
}
