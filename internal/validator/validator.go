package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/tree"
)

// ReservedRootName is the alias the engine uses for the root composite.
const ReservedRootName = "root"

// ValidateTree checks that every node can be addressed unambiguously by name:
// composite names are unique, no nested composite is called "root", and no
// composite has two direct children with the same key.
func ValidateTree(root tree.Node) error {
	var errors []string
	seen := make(map[string]int)

	_ = tree.Walk(root, func(n tree.Node, depth int) error {
		c, ok := n.(*tree.Composite)
		if !ok {
			return nil
		}

		if name := c.Name(); name != "" {
			seen[name]++
			if seen[name] == 2 {
				errors = append(errors, fmt.Sprintf("Duplicate composite name: '%s'", name))
			}
			if depth > 0 && name == ReservedRootName {
				errors = append(errors, fmt.Sprintf("Nested composite uses reserved name '%s'", name))
			}
		}

		keys := make(map[string]bool)
		for _, child := range c.Children() {
			key := tree.Key(child)
			if key == "" {
				continue
			}
			if keys[key] {
				errors = append(errors, fmt.Sprintf("Duplicate child '%s' under '%s'", key, c.Name()))
			}
			keys[key] = true
		}
		return nil
	})

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
