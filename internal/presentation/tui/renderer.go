package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/tree"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style auto-detects light/dark backgrounds (and plain output when
// stdout is not a terminal); otherwise style names a glamour standard style.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// Outline describes the tree as a nested markdown list, composites in bold.
func Outline(root tree.Node) string {
	var sb strings.Builder

	title := tree.Key(root)
	if title == "" {
		title = "Tree"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	_ = tree.Walk(root, func(n tree.Node, depth int) error {
		if depth == 0 {
			return nil
		}
		indent := strings.Repeat("  ", depth-1)
		switch v := n.(type) {
		case *tree.Leaf:
			fmt.Fprintf(&sb, "%s- %s\n", indent, v.Label())
		case *tree.Composite:
			name := v.Name()
			if name == "" {
				name = "group"
			}
			fmt.Fprintf(&sb, "%s- **%s**\n", indent, name)
		}
		return nil
	})
	return sb.String()
}

// ExecutionReport lists executed labels as a numbered markdown list.
func ExecutionReport(labels []string) string {
	var sb strings.Builder
	sb.WriteString("## Execution\n\n")
	if len(labels) == 0 {
		sb.WriteString("_No tasks._\n")
		return sb.String()
	}
	for i, l := range labels {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, l)
	}
	return sb.String()
}
