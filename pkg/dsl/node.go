package dsl

import "github.com/aretw0/arbor/pkg/domain"

// GroupBuilder provides a fluent API for filling a composite.
type GroupBuilder struct {
	spec   domain.NodeSpec
	items  []item
	parent *GroupBuilder
}

// item is either a leaf spec or a nested group, kept in declaration order.
type item struct {
	leaf  *domain.NodeSpec
	group *GroupBuilder
}

func newGroup(name string, parent *GroupBuilder) *GroupBuilder {
	return &GroupBuilder{
		spec:   domain.NodeSpec{Kind: domain.KindComposite, Name: name},
		parent: parent,
	}
}

// Task appends a leaf and returns the same group for chaining.
func (g *GroupBuilder) Task(label string) *GroupBuilder {
	leaf := domain.Leaf(label)
	g.items = append(g.items, item{leaf: &leaf})
	return g
}

// Tasks appends several leaves in order.
func (g *GroupBuilder) Tasks(labels ...string) *GroupBuilder {
	for _, label := range labels {
		g.Task(label)
	}
	return g
}

// Group appends a nested composite and returns its builder.
func (g *GroupBuilder) Group(name string) *GroupBuilder {
	child := newGroup(name, g)
	g.items = append(g.items, item{group: child})
	return child
}

// End returns the enclosing group (or the group itself at the top).
func (g *GroupBuilder) End() *GroupBuilder {
	if g.parent == nil {
		return g
	}
	return g.parent
}

// Spec renders the group and everything below it.
func (g *GroupBuilder) Spec() domain.NodeSpec {
	spec := g.spec
	spec.Children = make([]domain.NodeSpec, 0, len(g.items))
	for _, it := range g.items {
		if it.leaf != nil {
			spec.Children = append(spec.Children, *it.leaf)
			continue
		}
		spec.Children = append(spec.Children, it.group.Spec())
	}
	return spec
}
