package domain

import "fmt"

// NodeKind selects the variant a NodeSpec describes.
type NodeKind string

const (
	// KindLeaf is a terminal task carrying a label.
	KindLeaf NodeKind = "leaf"
	// KindComposite is an ordered group of child tasks.
	KindComposite NodeKind = "composite"
)

// NodeSpec is the declarative description of a task tree node.
// It is what loaders decode from YAML/JSON and what the DSL produces.
type NodeSpec struct {
	// Kind is optional. When empty it is inferred by ResolveKind.
	Kind NodeKind `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`

	// Label identifies a leaf. It is what Execute reports.
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`

	// Name is an optional display name for a composite.
	// It is used for rendering and lookups, never reported by Execute.
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`

	// Children are the ordered children of a composite.
	Children []NodeSpec `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// ResolveKind returns the explicit Kind or infers it:
// a spec with children or without a label is a composite, anything else is a leaf.
func (s NodeSpec) ResolveKind() NodeKind {
	if s.Kind != "" {
		return s.Kind
	}
	if len(s.Children) > 0 || s.Label == "" {
		return KindComposite
	}
	return KindLeaf
}

// Validate checks the node spec recursively.
// Errors wrap ErrInvalidSpec and carry the path of the offending node.
func (s NodeSpec) Validate() error {
	return s.validate("$")
}

func (s NodeSpec) validate(path string) error {
	switch s.ResolveKind() {
	case KindLeaf:
		if s.Label == "" {
			return fmt.Errorf("%w: leaf at %s has no label", ErrInvalidSpec, path)
		}
		if len(s.Children) > 0 {
			return fmt.Errorf("%w: leaf %q at %s has children", ErrInvalidSpec, s.Label, path)
		}
	case KindComposite:
		if s.Label != "" {
			return fmt.Errorf("%w: composite at %s has a label (%q), use name", ErrInvalidSpec, path, s.Label)
		}
		for i, child := range s.Children {
			if err := child.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %q at %s", ErrInvalidSpec, s.Kind, path)
	}
	return nil
}

// Leaf is a convenience constructor for a leaf spec.
func Leaf(label string) NodeSpec {
	return NodeSpec{Kind: KindLeaf, Label: label}
}

// Group is a convenience constructor for a composite spec.
func Group(name string, children ...NodeSpec) NodeSpec {
	return NodeSpec{Kind: KindComposite, Name: name, Children: children}
}
