package memory

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Loader implements ports.SpecLoader from an in-memory definition.
// The definition is kept serialized so every Load returns an independent copy.
type Loader struct {
	raw []byte
}

// NewLoader creates a Loader from a domain spec.
// The node spec is validated up front.
func NewLoader(spec domain.NodeSpec) (*Loader, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}
	return &Loader{raw: raw}, nil
}

// NewLoaderFromJSON creates a Loader from a raw JSON definition.
func NewLoaderFromJSON(data string) (*Loader, error) {
	var spec domain.NodeSpec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSpec, err)
	}
	return NewLoader(spec)
}

// Load returns a fresh copy of the definition.
func (l *Loader) Load() (domain.NodeSpec, error) {
	var spec domain.NodeSpec
	if err := json.Unmarshal(l.raw, &spec); err != nil {
		return domain.NodeSpec{}, fmt.Errorf("failed to unmarshal spec: %w", err)
	}
	return spec, nil
}
