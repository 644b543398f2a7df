package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/fsm"
	"github.com/aretw0/arbor/pkg/observability"
)

// EngineOptions contains the configuration shared by every command.
type EngineOptions struct {
	// TreePath is a YAML or JSON tree definition. Empty starts with an empty root.
	TreePath string
	// Initial is the machine's starting state (default: off).
	Initial string
	// Debug logs every engine event to stderr.
	Debug bool
	// Headless suppresses banners and prompts.
	Headless bool
	// Metrics, when set, records engine events.
	Metrics *observability.Metrics
}

// CreateEngine initializes an Arbor engine with standard CLI conventions.
func CreateEngine(opts EngineOptions, logger *slog.Logger) (*arbor.Engine, error) {
	// 1. Logger & Hooks
	engineOpts := []arbor.Option{arbor.WithLogger(logger)}

	var hooks []domain.LifecycleHooks
	if opts.Debug {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}
	if opts.Metrics != nil {
		hooks = append(hooks, opts.Metrics.Hooks())
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, arbor.WithLifecycleHooks(observability.MergeHooks(hooks...)))
	}

	// 2. Tree source
	if opts.TreePath != "" {
		engineOpts = append(engineOpts,
			arbor.WithLoader(file.New(opts.TreePath, file.WithLogger(logger))),
			arbor.WithName(treeName(opts.TreePath)),
		)
	}

	// 3. Machine
	if opts.Initial != "" {
		s, err := fsm.ParseState(opts.Initial)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, arbor.WithInitialState(s))
	}

	// 4. Initialize
	engine, err := arbor.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// treeName derives a display name from a definition path ("trees/build.yaml" -> "build").
func treeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
