package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// SpecLoader defines how the engine retrieves its tree definition.
// This allows the source (file, memory, DSL) to be decoupled.
type SpecLoader interface {
	// Load returns the root definition. Implementations return errors
	// wrapping domain.ErrInvalidSpec for malformed definitions.
	Load() (domain.NodeSpec, error)
}

// Watchable defines an interface for loaders that can notify about source changes.
// This is typically used for hot-reload in dev mode.
type Watchable interface {
	// Watch returns a channel that is signalled when the definition changes.
	// It carries no details, only that a reload is required. The channel is
	// closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
