package validator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/luckydraw/internal/runtime"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/ports"
)

// Report is the result of crawling every resource a flow can reach.
type Report struct {
	// Resources maps each visited identifier to its number of options.
	Resources map[string]int
	Problems  []string
}

// OK reports whether the crawl found no problem.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Err folds the problems into a single error, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Problems), strings.Join(r.Problems, "\n- "))
}

// ValidateResources walks the flow step by step. Static steps are fetched once;
// dynamic steps are resolved for every value their dependency can produce, so a
// brand without a lookup entry or a missing series file is reported before anyone
// draws it.
func ValidateResources(ctx context.Context, f domain.Flow, retriever ports.Retriever) (*Report, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	resolver := runtime.NewResolver(f.Tables)
	report := &Report{Resources: make(map[string]int)}
	fetched := make(map[string]domain.OptionList)

	fetch := func(stepKey, id string) domain.OptionList {
		if options, ok := fetched[id]; ok {
			return options
		}
		text, err := retriever.Retrieve(ctx, id)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("Missing resource for '%s': '%s' (%v)", stepKey, id, err))
			fetched[id] = nil
			return nil
		}
		options := runtime.ParseOptions(text)
		if len(options) == 0 {
			report.Problems = append(report.Problems, fmt.Sprintf("Empty resource for '%s': '%s'", stepKey, id))
		}
		fetched[id] = options
		report.Resources[id] = len(options)
		return options
	}

	// Every value each step can produce, in first-seen order.
	values := make(map[string][]string, len(f.Steps))

	for _, step := range f.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if !step.IsDynamic() {
			id, err := resolver.Resolve(step, domain.NewPickRecord())
			if err != nil {
				report.Problems = append(report.Problems, err.Error())
				continue
			}
			values[step.Key] = fetch(step.Key, id)
			continue
		}

		var produced []string
		for _, v := range values[step.DependsOn] {
			picks := domain.NewPickRecord()
			picks.Set(step.DependsOn, v)

			id, err := resolver.Resolve(step, picks)
			if err != nil {
				var resErr *domain.ResolutionError
				if errors.As(err, &resErr) && resErr.Reason == domain.ReasonUnmapped {
					report.Problems = append(report.Problems, fmt.Sprintf("Unmapped value for '%s': '%s' has no entry in table '%s'", step.Key, v, step.Table))
					continue
				}
				report.Problems = append(report.Problems, err.Error())
				break
			}
			for _, o := range fetch(step.Key, id) {
				if !slices.Contains(produced, o) {
					produced = append(produced, o)
				}
			}
		}
		values[step.Key] = produced
	}

	return report, nil
}
