package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type config struct {
	w    io.Writer
	json bool
}

// Option configures the logger built by New.
type Option func(*config)

// WithWriter redirects output (default: os.Stderr).
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.w = w
	}
}

// WithJSON switches to the JSON handler, for the HTTP server.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// New creates a configured application logger.
// It writes to Stderr so stdout stays clean for labels, graphs and JSON.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, opts ...Option) *slog.Logger {
	c := &config{w: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if c.json {
		return slog.New(slog.NewJSONHandler(c.w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(c.w, handlerOpts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a flag value (debug, info, warn, error) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
