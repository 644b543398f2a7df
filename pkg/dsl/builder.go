package dsl

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/tree"
)

// Builder manages the tree construction.
type Builder struct {
	*GroupBuilder
}

// New creates a builder whose root composite is named name.
func New(name string) *Builder {
	return &Builder{GroupBuilder: newGroup(name, nil)}
}

// Build compiles the tree into a MemoryLoader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewLoader(b.Spec())
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// Tree compiles the definition straight into a task tree.
func (b *Builder) Tree() (*tree.Composite, error) {
	root, err := tree.BuildComposite(b.Spec())
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return root, nil
}
