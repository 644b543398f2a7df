package tree

import (
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
)

// Composite is an ordered container of child nodes. It is itself a Node.
type Composite struct {
	name     string
	children []Node
	parent   *Composite
}

// CompositeOption configures a Composite at construction.
type CompositeOption func(*Composite)

// WithName sets the display name of the composite.
func WithName(name string) CompositeOption {
	return func(c *Composite) {
		c.name = name
	}
}

// NewComposite creates an empty, detached composite.
func NewComposite(opts ...CompositeOption) *Composite {
	c := &Composite{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the display name (may be empty).
func (c *Composite) Name() string {
	return c.name
}

// Parent returns the owning composite, if any.
func (c *Composite) Parent() *Composite {
	return c.parent
}

// Children returns a copy of the children in insertion order.
func (c *Composite) Children() []Node {
	return slices.Clone(c.children)
}

// Len returns the number of direct children.
func (c *Composite) Len() int {
	return len(c.children)
}

// Execute returns the concatenation of every child's labels, in child order.
// An empty composite yields an empty, non-nil slice.
func (c *Composite) Execute() []string {
	return c.appendLabels(make([]string, 0, len(c.children)))
}

func (c *Composite) appendLabels(dst []string) []string {
	for _, child := range c.children {
		dst = child.appendLabels(dst)
	}
	return dst
}

func (c *Composite) setParent(p *Composite) {
	c.parent = p
}

// Add appends child to the end of the children.
//
// It fails with a *CycleError when child is c itself or one of c's ancestors.
// A child that already belongs to a composite (including c) is detached from
// it first, so the node ends up last in c and keeps a single parent.
func (c *Composite) Add(child Node) error {
	if isNil(child) {
		return domain.ErrNilNode
	}
	if cc, ok := child.(*Composite); ok && c.hasAncestor(cc) {
		return &CycleError{Parent: c, Child: cc}
	}

	if prev := child.Parent(); prev != nil {
		prev.detach(child)
	}
	child.setParent(c)
	c.children = append(c.children, child)
	return nil
}

// Remove removes child by identity. Removing an absent child is a no-op.
func (c *Composite) Remove(child Node) {
	if isNil(child) {
		return
	}
	if c.detach(child) {
		child.setParent(nil)
	}
}

// detach drops the first occurrence of child without touching its parent link.
func (c *Composite) detach(child Node) bool {
	i := slices.Index(c.children, child)
	if i < 0 {
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	return true
}

// hasAncestor reports whether n is c or one of c's ancestors.
func (c *Composite) hasAncestor(n *Composite) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Contains reports whether n is c or appears anywhere below c.
func (c *Composite) Contains(n Node) bool {
	if isNil(n) {
		return false
	}
	for cur := n; cur != nil; {
		if cc, ok := cur.(*Composite); ok && cc == c {
			return true
		}
		p := cur.Parent()
		if p == nil {
			return false
		}
		cur = p
	}
	return false
}
