package dsl

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
)

func TestBuilder_ExampleTree(t *testing.T) {
	// 1. Declare the tree using the DSL
	b := New("root")
	b.Group("A").Task("T1").Task("T2")
	b.Group("B").Task("T3")

	// 2. Compile to a tree
	root, err := b.Tree()
	if err != nil {
		t.Fatalf("Tree() failed: %v", err)
	}

	// 3. Execute
	got := root.Execute()
	want := []string{"T1", "T2", "T3"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected label %d to be %q, got %q", i, want[i], got[i])
		}
	}

	if a := tree.FindComposite(root, "A"); a == nil || a.Len() != 2 {
		t.Errorf("Expected composite 'A' with 2 children, got %v", a)
	}
}

func TestBuilder_EndNavigatesUp(t *testing.T) {
	b := New("root")
	b.Group("outer").
		Task("a").
		Group("inner").Tasks("b", "c").End().
		Task("d")
	b.Task("e")

	root, err := b.Tree()
	if err != nil {
		t.Fatalf("Tree() failed: %v", err)
	}

	got := root.Execute()
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected label %d to be %q, got %q", i, want[i], got[i])
		}
	}

	if b.End() != b.GroupBuilder {
		t.Error("End() on the root should return the root")
	}
}

func TestBuilder_Build(t *testing.T) {
	b := New("root")
	b.Group("empty")

	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	spec, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if spec.Name != "root" || len(spec.Children) != 1 {
		t.Fatalf("Unexpected spec: %+v", spec)
	}
	if spec.Children[0].ResolveKind() != domain.KindComposite {
		t.Errorf("Expected 'empty' to stay a composite, got %s", spec.Children[0].ResolveKind())
	}
}

func TestBuilder_InvalidLeaf(t *testing.T) {
	b := New("root")
	b.Task("")

	if _, err := b.Build(); err == nil {
		t.Error("Expected error for empty leaf label")
	}
	if _, err := b.Tree(); err == nil {
		t.Error("Expected error for empty leaf label")
	}
}
