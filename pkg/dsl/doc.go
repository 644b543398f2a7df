/*
Package dsl provides a fluent API to declare task trees in Go code.

It produces the same domain.NodeSpec the file loaders produce, so trees
built in code and trees read from YAML go through the same validation.

	b := dsl.New("root")
	b.Group("A").Task("T1").Task("T2")
	b.Group("B").Task("T3")

	root, err := b.Tree() // Root = [A = [T1, T2], B = [T3]]
*/
package dsl
