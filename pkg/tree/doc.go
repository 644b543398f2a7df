/*
Package tree implements the task tree: a recursive, mutable and acyclic
structure of executable nodes.

A Node is either a *Leaf, which carries an immutable label, or a *Composite,
which owns an ordered list of children. Executing a node returns the labels
of every leaf below it in pre-order, left to right.

	t1, t2, t3 := tree.NewLeaf("T1"), tree.NewLeaf("T2"), tree.NewLeaf("T3")

	a := tree.NewComposite()
	_ = a.Add(t1)
	_ = a.Add(t2)

	b := tree.NewComposite()
	_ = b.Add(t3)

	root := tree.NewComposite()
	_ = root.Add(a)
	_ = root.Add(b)

	root.Execute() // [T1 T2 T3]

# Ownership

Every node has at most one parent. Adding a node that already belongs to a
composite moves it: it is detached from its previous parent first. Adding a
composite under itself or under one of its descendants fails with a
*CycleError, so Execute always terminates.

# Concurrency

Trees are not safe for concurrent use. Callers that share a tree between
goroutines must serialize Add, Remove and Execute themselves (the arbor
Engine does this with a single mutex).
*/
package tree
