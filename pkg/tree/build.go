package tree

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Build constructs a detached tree from spec.
// The node spec is validated first; errors wrap domain.ErrInvalidSpec.
func Build(spec domain.NodeSpec) (Node, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return build(spec)
}

// BuildComposite is Build for callers that need a composite root.
func BuildComposite(spec domain.NodeSpec) (*Composite, error) {
	n, err := Build(spec)
	if err != nil {
		return nil, err
	}
	c, ok := n.(*Composite)
	if !ok {
		return nil, fmt.Errorf("%w: root must be a composite", domain.ErrInvalidSpec)
	}
	return c, nil
}

func build(spec domain.NodeSpec) (Node, error) {
	if spec.ResolveKind() == domain.KindLeaf {
		return NewLeaf(spec.Label), nil
	}

	c := NewComposite(WithName(spec.Name))
	for _, childSpec := range spec.Children {
		child, err := build(childSpec)
		if err != nil {
			return nil, err
		}
		// Freshly built children are detached, Add cannot fail here.
		if err := c.Add(child); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Describe converts a tree back into its declarative form.
func Describe(n Node) domain.NodeSpec {
	switch v := n.(type) {
	case *Leaf:
		if v == nil {
			return domain.NodeSpec{}
		}
		return domain.Leaf(v.label)
	case *Composite:
		if v == nil {
			return domain.NodeSpec{}
		}
		spec := domain.NodeSpec{Kind: domain.KindComposite, Name: v.name}
		for _, child := range v.children {
			spec.Children = append(spec.Children, Describe(child))
		}
		return spec
	}
	return domain.NodeSpec{}
}
