package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/fsm"
	"github.com/aretw0/arbor/pkg/tree"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// VisitedLabels marks leaves reported by an execution.
	VisitedLabels []string
	// Current highlights the first node whose label or name matches.
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of the tree rooted at root.
// Node IDs follow pre-order (n0 is the root), so output is stable for a
// given shape. It applies semantic styling:
// - Root: ((Circle))
// - Composite: [[Subroutine]]
// - Leaf: [Rectangle]
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(root tree.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[tree.Node]string)
	var order []tree.Node
	_ = tree.Walk(root, func(n tree.Node, depth int) error {
		id := fmt.Sprintf("n%d", len(order))
		ids[n] = id
		order = append(order, n)

		opener, closer := "[", "]"
		label := tree.Key(n)
		if c, ok := n.(*tree.Composite); ok {
			opener, closer = "[[", "]]"
			if depth == 0 {
				opener, closer = "((", "))"
			}
			if label == "" {
				label = fmt.Sprintf("group %d", len(order)-1)
			}
			if c.Len() == 0 {
				label += " (empty)"
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escapeLabel(label), closer)

		if p := n.Parent(); p != nil && depth > 0 {
			fmt.Fprintf(&sb, "    %s --> %s\n", ids[p], id)
		}
		return nil
	})

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool, len(overlay.VisitedLabels))
		for _, l := range overlay.VisitedLabels {
			visited[l] = true
		}
		for _, n := range order {
			if _, ok := n.(*tree.Leaf); ok && visited[tree.Key(n)] {
				fmt.Fprintf(&sb, "    class %s visited;\n", ids[n])
			}
		}

		if overlay.Current != "" {
			if n := tree.Find(root, overlay.Current); n != nil {
				fmt.Fprintf(&sb, "    class %s current;\n", ids[n])
			}
		}
	}

	return sb.String()
}

// GenerateStateDiagram renders the phone state machine as a Mermaid state
// diagram, highlighting current. Rejected inputs are marked as such.
func GenerateStateDiagram(current fsm.State) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    [*] --> %s\n", fsm.StateOff)

	for _, tr := range fsm.Table() {
		marker := ""
		if !tr.Accepted {
			marker = " (rejected)"
		}
		fmt.Fprintf(&sb, "    %s --> %s: %s / %s%s\n", tr.From, tr.To, tr.Input, escapeLabel(tr.Effect), marker)
	}

	if current != "" {
		sb.WriteString("\n    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current\n", current)
	}
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	return strings.ReplaceAll(s, ":", "#colon;")
}
