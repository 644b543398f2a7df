package tree

// Node is a unit of work in a task tree.
// The set of implementations is closed: a Node is either a *Leaf or a *Composite.
type Node interface {
	// Execute returns the labels of every leaf reachable from this node, in pre-order.
	Execute() []string

	// Parent returns the composite owning this node, or nil for a detached node.
	Parent() *Composite

	appendLabels(dst []string) []string
	setParent(p *Composite)
}

// Leaf is a terminal node carrying an immutable label.
type Leaf struct {
	label  string
	parent *Composite
}

// NewLeaf creates a detached leaf.
func NewLeaf(label string) *Leaf {
	return &Leaf{label: label}
}

// Label returns the leaf's label.
func (l *Leaf) Label() string {
	return l.label
}

// Execute returns a single-element slice holding the label.
func (l *Leaf) Execute() []string {
	return []string{l.label}
}

// Parent returns the owning composite, if any.
func (l *Leaf) Parent() *Composite {
	return l.parent
}

func (l *Leaf) appendLabels(dst []string) []string {
	return append(dst, l.label)
}

func (l *Leaf) setParent(p *Composite) {
	l.parent = p
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Leaf:
		return v == nil
	case *Composite:
		return v == nil
	}
	return false
}
