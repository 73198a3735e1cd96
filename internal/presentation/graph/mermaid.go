package graph

import (
	"fmt"
	"strings"

	"github.com/civicscribe/intake/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []domain.StepID
	CurrentStep  domain.StepID
}

// NewOverlay builds an overlay from a session state.
func NewOverlay(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{VisitedSteps: state.History, CurrentStep: state.Step}
}

// GenerateMermaid produces a Mermaid flowchart from the step graph.
// Shapes follow the step kind:
// - Entry: ((Circle))
// - Gate: {Rhombus}
// - Branch: {{Hexagon}}
// - Terminal: ([Stadium])
// - Slot: [Rectangle]
// Edges that cross into another section are dotted.
func GenerateMermaid(nodes []domain.Node, entry domain.StepID, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sections := make(map[domain.StepID]string, len(nodes))
	for _, node := range nodes {
		sections[node.ID] = node.Section
	}

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == entry:
			opener, closer = "((", "))"
		case node.Kind == domain.NodeGate:
			opener, closer = "{", "}"
		case node.Kind == domain.NodeBranch:
			opener, closer = "{{", "}}"
		case node.Kind == domain.NodeTerminal:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer)

		for _, t := range node.Transitions {
			// Self-loops on the terminal step add noise without information.
			if t.To == node.ID && node.Kind == domain.NodeTerminal {
				continue
			}
			safeTo := sanitizeMermaidID(t.To)
			crossing := sections[t.To] != node.Section

			arrow := "-->"
			if crossing {
				arrow = "-.->"
			}
			if t.Condition != "" {
				label := strings.ReplaceAll(t.Condition, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", label)
				if crossing {
					arrow = fmt.Sprintf("-. \"%s\" .->", label)
				}
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedSteps {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentStep != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentStep))
		}
	}

	return sb.String()
}

// sanitizeMermaidID keeps ids clear of Mermaid keywords ("end" in particular).
func sanitizeMermaidID(id domain.StepID) string {
	if id == "" {
		return ""
	}
	s := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_").Replace(string(id))
	return "s_" + s
}
