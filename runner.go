package arbor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/fsm"
)

// Runner drives the engine's state machine from line-oriented input.
// Each line is one input (power, call, volume); "exit" or "quit" stops the loop.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads inputs until EOF, an exit command or ctx cancellation and prints
// the effect of each. Unknown inputs are reported and skipped.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewScanner(r.Input)

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- Arbor phone (type power, call, volume or exit) ---")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Headless {
			fmt.Fprintf(r.Output, "[%s]> ", engine.State())
		}

		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			return nil
		}
		text := strings.TrimSpace(lines.Text())
		switch text {
		case "":
			continue
		case "exit", "quit":
			if !r.Headless {
				fmt.Fprintln(r.Output, "Bye!")
			}
			return nil
		}

		tr, err := engine.Dispatch(ctx, fsm.Input(text))
		if err != nil {
			if errors.Is(err, domain.ErrUnknownInput) {
				fmt.Fprintln(r.Output, err.Error())
				continue
			}
			return fmt.Errorf("dispatch error: %w", err)
		}
		r.print(tr.Effect)
	}
}

func (r *Runner) print(content string) {
	output := content
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}
