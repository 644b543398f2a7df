package tree

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// CycleError is returned by Composite.Add when the child is the target
// composite or one of its ancestors.
type CycleError struct {
	Parent *Composite
	Child  *Composite
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if e.Parent == e.Child {
		return fmt.Sprintf("cannot add %s to itself: %v", describe(e.Child), domain.ErrCycle)
	}
	return fmt.Sprintf("cannot add %s under its descendant %s: %v", describe(e.Child), describe(e.Parent), domain.ErrCycle)
}

// Unwrap enables errors.Is(err, domain.ErrCycle).
func (e *CycleError) Unwrap() error {
	return domain.ErrCycle
}

func describe(c *Composite) string {
	if c == nil {
		return "<nil>"
	}
	if c.name != "" {
		return fmt.Sprintf("composite %q", c.name)
	}
	return "unnamed composite"
}
