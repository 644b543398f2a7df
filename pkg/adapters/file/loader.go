package file

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Loader implements ports.SpecLoader reading a YAML or JSON file.
// The file is read on every Load, so edits are picked up without restarting.
type Loader struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Option configures a Loader.
type Option func(*Loader)

// WithDebounce sets how long Watch waits for the file to settle before signalling.
func WithDebounce(d time.Duration) Option {
	return func(l *Loader) {
		l.debounce = d
	}
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader for path.
func New(path string, opts ...Option) *Loader {
	l := &Loader{
		path:     path,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, decodes and validates the definition file.
func (l *Loader) Load() (domain.NodeSpec, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.NodeSpec{}, fmt.Errorf("failed to read tree definition: %w", err)
	}
	spec, err := Parse(data, FormatFromPath(l.path))
	if err != nil {
		return domain.NodeSpec{}, fmt.Errorf("%s: %w", filepath.Base(l.path), err)
	}
	return spec, nil
}

// Parse decodes a definition.
//
// The document is first decoded generically and then mapped onto
// domain.NodeSpec, which allows two shorthands:
//
//	children:
//	  - T1            # a bare string is a leaf
//	  - label: T2
//	  - name: B
//	    children: [T3]
//
// Unknown keys are rejected. Errors wrap domain.ErrInvalidSpec.
func Parse(data []byte, format Format) (domain.NodeSpec, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.NodeSpec{}, fmt.Errorf("%w: failed to parse json: %v", domain.ErrInvalidSpec, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.NodeSpec{}, fmt.Errorf("%w: failed to parse yaml: %v", domain.ErrInvalidSpec, err)
		}
	}
	if raw == nil {
		return domain.NodeSpec{}, fmt.Errorf("%w: empty document", domain.ErrInvalidSpec)
	}

	spec, err := Decode(raw)
	if err != nil {
		return domain.NodeSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return domain.NodeSpec{}, err
	}
	return spec, nil
}

// Decode maps a generic document (maps, slices, scalars) onto a NodeSpec.
func Decode(raw any) (domain.NodeSpec, error) {
	var spec domain.NodeSpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       leafShorthandHook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &spec,
		TagName:          "mapstructure",
	})
	if err != nil {
		return domain.NodeSpec{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.NodeSpec{}, fmt.Errorf("%w: %v", domain.ErrInvalidSpec, err)
	}
	return spec, nil
}

var nodeSpecType = reflect.TypeOf(domain.NodeSpec{})

// leafShorthandHook turns scalars found where a NodeSpec is expected into leaves.
func leafShorthandHook(from, to reflect.Type, data any) (any, error) {
	if to != nodeSpecType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64, reflect.Bool:
		return map[string]any{"label": fmt.Sprint(data)}, nil
	}
	return data, nil
}
