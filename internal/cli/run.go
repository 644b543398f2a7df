package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/fsm"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	EngineOptions
	// Pretty renders the outline and execution as markdown through glamour.
	Pretty bool
	// JSON prints {"labels": [...]}.
	JSON bool
}

// Run executes the tree once and writes the visited labels to w.
func Run(ctx context.Context, w io.Writer, opts RunOptions) error {
	logger := CreateLogger(opts.Debug)
	engine, err := CreateEngine(opts.EngineOptions, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	labels := engine.Execute(ctx)

	switch {
	case opts.JSON:
		return json.NewEncoder(w).Encode(map[string][]string{"labels": labels})
	case opts.Pretty:
		render, err := tui.NewRenderer("")
		if err != nil {
			return err
		}
		out, err := render(tui.Outline(engine.Tree()) + "\n" + tui.ExecutionReport(labels))
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		fmt.Fprint(w, out)
	default:
		for _, l := range labels {
			fmt.Fprintln(w, l)
		}
	}
	return nil
}

// GraphOptions contains the configuration for the graph command.
type GraphOptions struct {
	EngineOptions
	// Machine renders the state diagram instead of the tree.
	Machine bool
	// Visited overlays the labels of one execution.
	Visited bool
}

// Graph writes a Mermaid diagram of the tree (or of the state machine) to w.
func Graph(ctx context.Context, w io.Writer, opts GraphOptions) error {
	engine, err := CreateEngine(opts.EngineOptions, CreateLogger(opts.Debug))
	if err != nil {
		return err
	}

	if opts.Machine {
		fmt.Fprint(w, graph.GenerateStateDiagram(engine.State()))
		return nil
	}

	fmt.Fprint(w, engine.Graph(opts.Visited))
	return nil
}

// Phone drives the state machine. With inputs it handles them in order and
// prints each transition; without, it reads one input per line from r until
// EOF or "exit".
func Phone(ctx context.Context, r io.Reader, w io.Writer, opts EngineOptions, inputs []string) error {
	engine, err := CreateEngine(opts, CreateLogger(opts.Debug))
	if err != nil {
		return err
	}
	defer engine.Close()

	if len(inputs) == 0 {
		runner := arbor.NewRunner()
		runner.Input = r
		runner.Output = w
		runner.Headless = opts.Headless
		return handleExecutionError(runner.Run(ctx, engine))
	}

	for _, raw := range inputs {
		tr, err := engine.Dispatch(ctx, inputOf(raw))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s --%s--> %s: %s\n", tr.From, tr.Input, tr.To, tr.Effect)
	}
	printSystemMessage(w, "Finished in '%s' state.", engine.State())
	return nil
}

// NotifyOptions contains the configuration for the notify command.
type NotifyOptions struct {
	EngineOptions
	// Message is broadcast as is.
	Message string
	// Discount, when set, announces a discount instead of Message.
	Discount string
	// Subscribers are display names; repeated names subscribe repeatedly.
	Subscribers []string
}

// Notify subscribes one display per name, broadcasts the message and reports
// how many deliveries happened.
func Notify(w io.Writer, opts NotifyOptions) error {
	if opts.Message == "" && opts.Discount == "" {
		return errors.New("nothing to send: pass a message or --discount")
	}

	engine, err := CreateEngine(opts.EngineOptions, CreateLogger(opts.Debug))
	if err != nil {
		return err
	}
	defer engine.Close()

	displays := make(map[string]*display, len(opts.Subscribers))
	for _, name := range opts.Subscribers {
		d, ok := displays[name]
		if !ok {
			d = &display{name: name, w: w}
			displays[name] = d
		}
		engine.Subscribe(d)
	}

	var delivered int
	if opts.Discount != "" {
		delivered = engine.AnnounceDiscount(opts.Discount)
	} else {
		delivered = engine.Notify(opts.Message)
	}
	printSystemMessage(w, "Delivered to %d subscriber(s).", delivered)
	return nil
}

type display struct {
	name string
	w    io.Writer
}

func (d *display) Receive(message string) {
	fmt.Fprintf(d.w, "[%s] %s\n", d.name, message)
}

func inputOf(raw string) fsm.Input {
	return fsm.Input(strings.ToLower(strings.TrimSpace(raw)))
}

// Validate loads the tree definition at path and checks that every node is
// addressable. It prints a summary on success.
func Validate(w io.Writer, path string) error {
	engine, err := CreateEngine(EngineOptions{TreePath: path}, CreateLogger(false))
	if err != nil {
		return err
	}
	if err := validator.ValidateTree(engine.Tree()); err != nil {
		return err
	}

	stats := engine.Stats()
	fmt.Fprintf(w, "Tree is valid: %d leaves, %d composites, depth %d\n", stats.Leaves, stats.Composites, stats.Depth)
	return nil
}
