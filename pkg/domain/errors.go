package domain

import "errors"

// ErrCycle is returned when a node would become its own descendant.
var ErrCycle = errors.New("cycle detected")

// ErrNilNode is returned when a nil node is added to a composite.
var ErrNilNode = errors.New("nil node")

// ErrInvalidSpec is returned when a tree definition cannot be turned into nodes.
var ErrInvalidSpec = errors.New("invalid node spec")

// ErrParentNotFound is returned when a named composite does not exist in the tree.
var ErrParentNotFound = errors.New("parent not found")

// ErrUnknownState is returned for a state outside the machine's closed set.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownInput is returned for an input outside the machine's closed set.
var ErrUnknownInput = errors.New("unknown input")

// ErrNodeNotFound is returned when no node in the tree carries the given label or name.
var ErrNodeNotFound = errors.New("node not found")

// ErrWatchUnsupported is returned when the tree source cannot report changes.
var ErrWatchUnsupported = errors.New("loader does not support watching")
