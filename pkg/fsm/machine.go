package fsm

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// Transition is the outcome of handling one input.
type Transition struct {
	From     State  `json:"from"`
	Input    Input  `json:"input"`
	To       State  `json:"to"`
	Effect   string `json:"effect"`
	Accepted bool   `json:"accepted"`
}

// Machine holds the current state. It is not safe for concurrent use.
type Machine struct {
	current State
	logger  *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a machine in the given initial state.
func New(initial State, opts ...Option) (*Machine, error) {
	if !initial.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownState, initial)
	}
	m := &Machine{
		current: initial,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Current returns the current state.
func (m *Machine) Current() State {
	return m.current
}

// Set forces the machine into s.
func (m *Machine) Set(s State) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownState, s)
	}
	m.current = s
	return nil
}

// Handle routes in to the current state and moves to the state it selects.
// An input outside the closed set returns ErrUnknownInput and changes nothing.
func (m *Machine) Handle(in Input) (Transition, error) {
	r, ok := table[m.current][in]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %q", domain.ErrUnknownInput, in)
	}

	tr := Transition{
		From:     m.current,
		Input:    in,
		To:       r.next,
		Effect:   r.effect,
		Accepted: r.accepted,
	}
	m.current = r.next

	m.logger.Debug("transition",
		"from", tr.From,
		"input", tr.Input,
		"to", tr.To,
		"accepted", tr.Accepted,
	)
	return tr, nil
}

// HandleAll handles inputs in order and stops at the first unknown input,
// returning the transitions applied so far.
func (m *Machine) HandleAll(inputs []Input) ([]Transition, error) {
	out := make([]Transition, 0, len(inputs))
	for _, in := range inputs {
		tr, err := m.Handle(in)
		if err != nil {
			return out, err
		}
		out = append(out, tr)
	}
	return out, nil
}
