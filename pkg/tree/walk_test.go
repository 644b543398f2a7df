package tree_test

import (
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_PreOrderWithDepth(t *testing.T) {
	root, _, _ := exampleTree(t)

	var visited []string
	var depths []int
	err := tree.Walk(root, func(n tree.Node, depth int) error {
		switch v := n.(type) {
		case *tree.Leaf:
			visited = append(visited, v.Label())
		case *tree.Composite:
			visited = append(visited, "<"+v.Name()+">")
		}
		depths = append(depths, depth)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"<root>", "<A>", "T1", "T2", "<B>", "T3"}, visited)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 2}, depths)
}

func TestWalk_SkipChildrenAndStop(t *testing.T) {
	root, _, _ := exampleTree(t)

	var visited int
	err := tree.Walk(root, func(n tree.Node, _ int) error {
		visited++
		if c, ok := n.(*tree.Composite); ok && c.Name() == "A" {
			return tree.SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, visited) // root, A, B, T3

	boom := errors.New("boom")
	err = tree.Walk(root, func(tree.Node, int) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCountAndFind(t *testing.T) {
	root, a, _ := exampleTree(t)

	assert.Equal(t, tree.Stats{Leaves: 3, Composites: 3, Depth: 2}, tree.Count(root))
	assert.Same(t, a, tree.FindComposite(root, "A"))
	assert.Nil(t, tree.FindComposite(root, "missing"))
	assert.Nil(t, root.Child("T1"))
}

func TestBuildAndDescribe(t *testing.T) {
	spec := domain.Group("root",
		domain.Group("A", domain.Leaf("T1"), domain.Leaf("T2")),
		domain.Group("B", domain.Leaf("T3")),
	)

	root, err := tree.BuildComposite(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, root.Execute())
	assert.Equal(t, spec, tree.Describe(root))
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec domain.NodeSpec
	}{
		{"Leaf Without Label", domain.NodeSpec{Kind: domain.KindLeaf}},
		{"Leaf With Children", domain.NodeSpec{Kind: domain.KindLeaf, Label: "x", Children: []domain.NodeSpec{domain.Leaf("y")}}},
		{"Unknown Kind", domain.NodeSpec{Kind: "branch"}},
		{"Nested Error", domain.Group("root", domain.NodeSpec{Kind: domain.KindLeaf})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.Build(tt.spec)
			assert.ErrorIs(t, err, domain.ErrInvalidSpec)
		})
	}

	_, err := tree.BuildComposite(domain.Leaf("lonely"))
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)
}

func TestFind(t *testing.T) {
	root, a, _ := exampleTree(t)

	assert.Same(t, a, tree.Find(root, "A"))
	assert.Equal(t, "T2", tree.Key(tree.Find(root, "T2")))
	assert.Nil(t, tree.Find(root, "missing"))
	assert.Equal(t, "T1", tree.Key(a.Child("T1")))
	assert.Nil(t, a.Child("T3"), "Child only looks at direct children")
}
