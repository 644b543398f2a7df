package tree

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the children of a composite.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk, with the node's depth
// relative to the starting node (0 for the start).
type WalkFunc func(n Node, depth int) error

// Walk visits n and its descendants in pre-order. It stops at the first
// error returned by fn, other than SkipChildren, and returns it.
func Walk(n Node, fn WalkFunc) error {
	if isNil(n) {
		return nil
	}
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	c, ok := n.(*Composite)
	if !ok {
		return nil
	}
	for _, child := range c.children {
		if err := walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Leaves     int
	Composites int
	Depth      int
}

// Count returns the number of leaves and composites below (and including) n,
// and the maximum depth.
func Count(n Node) Stats {
	var s Stats
	_ = Walk(n, func(node Node, depth int) error {
		switch node.(type) {
		case *Leaf:
			s.Leaves++
		case *Composite:
			s.Composites++
		}
		if depth > s.Depth {
			s.Depth = depth
		}
		return nil
	})
	return s
}

// FindComposite returns the first composite named name below (and including) n.
func FindComposite(n Node, name string) *Composite {
	var found *Composite
	_ = Walk(n, func(node Node, _ int) error {
		if c, ok := node.(*Composite); ok && c.name == name {
			found = c
			return errStop
		}
		return nil
	})
	return found
}

// Find returns the first node below (and including) n, in pre-order, whose
// label (leaf) or name (composite) equals key.
func Find(n Node, key string) Node {
	var found Node
	_ = Walk(n, func(node Node, _ int) error {
		if keyOf(node) == key {
			found = node
			return errStop
		}
		return nil
	})
	return found
}

// Key returns the label of a leaf or the name of a composite.
func Key(n Node) string {
	return keyOf(n)
}

func keyOf(n Node) string {
	switch v := n.(type) {
	case *Leaf:
		return v.label
	case *Composite:
		return v.name
	}
	return ""
}

// Child returns the first direct child of c whose label (leaf) or name
// (composite) equals key.
func (c *Composite) Child(key string) Node {
	for _, child := range c.children {
		if keyOf(child) == key {
			return child
		}
	}
	return nil
}

var errStop = errors.New("stop")
