package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/luckydraw/pkg/domain"
)

// Overlay contains run state to visualize on the diagram.
type Overlay struct {
	Picked  []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of the draw order and the
// dependencies of dynamic steps.
//
// Shapes:
// - Static step: [Rectangle] labelled with its resource
// - Dynamic step: [/Parallelogram/] labelled with its identifier template
//
// Solid arrows follow draw order; dotted arrows point from a dependency to the
// dynamic step that reads it, labelled with the lookup table.
func GenerateMermaid(steps []domain.StepDefinition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[string]string, len(steps))
	for i, step := range steps {
		ids[step.Key] = nodeID(i)
	}

	for i, step := range steps {
		id := nodeID(i)
		opener, closer := "[", "]"
		detail := step.Path
		if step.IsDynamic() {
			opener, closer = "[/", "/]"
			detail = step.Template.Compose("{" + step.DependsOn + "}")
		}
		fmt.Fprintf(&sb, "    %s%s\"%s <br/> %s\"%s\n", id, opener, escape(step.Key), escape(detail), closer)
	}

	for i := 1; i < len(steps); i++ {
		fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(i-1), nodeID(i))
	}

	for i, step := range steps {
		if !step.IsDynamic() {
			continue
		}
		from, ok := ids[step.DependsOn]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", from, escape(step.Table), nodeID(i))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef picked fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, key := range overlay.Picked {
			id, ok := ids[key]
			if ok && !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s picked;\n", id)
			}
		}
		if id, ok := ids[overlay.Current]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

// Step keys are free text (spaces, parentheses, CJK), so nodes are named by position.
func nodeID(i int) string {
	return fmt.Sprintf("step%d", i)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
