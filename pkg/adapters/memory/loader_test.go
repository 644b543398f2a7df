package memory_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleSpec() domain.NodeSpec {
	return domain.Group("root",
		domain.Group("A", domain.Leaf("T1"), domain.Leaf("T2")),
		domain.Group("B", domain.Leaf("T3")),
	)
}

func TestMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewLoader(exampleSpec())
	require.NoError(t, err)

	tests.SpecLoaderContractTest(t, loader, []string{"T1", "T2", "T3"})
}

func TestMemoryLoader_FromJSON(t *testing.T) {
	loader, err := memory.NewLoaderFromJSON(`{
		"name": "root",
		"children": [
			{"name": "A", "children": [{"label": "T1"}, {"label": "T2"}]},
			{"name": "B", "children": [{"label": "T3"}]}
		]
	}`)
	require.NoError(t, err)

	tests.SpecLoaderContractTest(t, loader, []string{"T1", "T2", "T3"})
}

func TestMemoryLoader_Invalid(t *testing.T) {
	_, err := memory.NewLoaderFromJSON(`{"children": [`)
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)

	_, err = memory.NewLoader(domain.NodeSpec{Kind: domain.KindLeaf})
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)
}
