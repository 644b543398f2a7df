package tests

import (
	"testing"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/tree"
)

// SpecLoaderContractTest is a reusable test suite that verifies if an adapter
// complies with ports.SpecLoader. wantLabels is the expected execution of the
// loaded tree.
func SpecLoaderContractTest(t *testing.T, loader ports.SpecLoader, wantLabels []string) {
	t.Helper()

	// 1. Load succeeds and validates
	t.Run("Load_Success", func(t *testing.T) {
		spec, err := loader.Load()
		if err != nil {
			t.Fatalf("unexpected error loading spec: %v", err)
		}
		if err := spec.Validate(); err != nil {
			t.Fatalf("loaded spec is invalid: %v", err)
		}
	})

	// 2. The node spec builds into the expected tree
	t.Run("Load_Builds", func(t *testing.T) {
		spec, err := loader.Load()
		if err != nil {
			t.Fatalf("unexpected error loading spec: %v", err)
		}
		root, err := tree.Build(spec)
		if err != nil {
			t.Fatalf("unexpected error building tree: %v", err)
		}

		got := root.Execute()
		if len(got) != len(wantLabels) {
			t.Fatalf("expected %d labels, got %d (%v)", len(wantLabels), len(got), got)
		}
		for i := range wantLabels {
			if got[i] != wantLabels[i] {
				t.Errorf("label %d mismatch. got %q, want %q", i, got[i], wantLabels[i])
			}
		}
	})

	// 3. Loading twice yields independent specs
	t.Run("Load_Independent", func(t *testing.T) {
		first, err := loader.Load()
		if err != nil {
			t.Fatalf("unexpected error loading spec: %v", err)
		}
		for i := range first.Children {
			first.Children[i].Name = "mutated"
		}

		second, err := loader.Load()
		if err != nil {
			t.Fatalf("unexpected error loading spec: %v", err)
		}
		for i, child := range second.Children {
			if child.Name == "mutated" {
				t.Errorf("child %d shared between loads", i)
			}
		}
	})
}
