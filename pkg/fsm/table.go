package fsm

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// State is one of the machine's modes.
type State string

const (
	StateOff State = "off"
	StateOn  State = "on"
)

// Input is a discrete event driving the machine.
type Input string

const (
	InputPower  Input = "power"
	InputCall   Input = "call"
	InputVolume Input = "volume"
)

// Effects reported by the transition table.
const (
	EffectPoweringOn     = "powering on"
	EffectPoweringOff    = "powering off"
	EffectPlacingCall    = "placing call"
	EffectCallRejected   = "call rejected: powered off"
	EffectAdjustVolume   = "adjusting volume"
	EffectVolumeRejected = "volume rejected: powered off"
)

type rule struct {
	next     State
	effect   string
	accepted bool
}

// table is total: every state defines every input.
var table = map[State]map[Input]rule{
	StateOff: {
		InputPower:  {next: StateOn, effect: EffectPoweringOn, accepted: true},
		InputCall:   {next: StateOff, effect: EffectCallRejected},
		InputVolume: {next: StateOff, effect: EffectVolumeRejected},
	},
	StateOn: {
		InputPower:  {next: StateOff, effect: EffectPoweringOff, accepted: true},
		InputCall:   {next: StateOn, effect: EffectPlacingCall, accepted: true},
		InputVolume: {next: StateOn, effect: EffectAdjustVolume, accepted: true},
	},
}

// States returns the closed set of states in a stable order.
func States() []State {
	return []State{StateOff, StateOn}
}

// Inputs returns the closed set of inputs in a stable order.
func Inputs() []Input {
	return []Input{InputPower, InputCall, InputVolume}
}

// Table lists every transition rule, ordered by States then Inputs.
func Table() []Transition {
	out := make([]Transition, 0, len(States())*len(Inputs()))
	for _, s := range States() {
		for _, in := range Inputs() {
			r := table[s][in]
			out = append(out, Transition{From: s, Input: in, To: r.next, Effect: r.effect, Accepted: r.accepted})
		}
	}
	return out
}

// Valid reports whether s belongs to the closed set.
func (s State) Valid() bool {
	_, ok := table[s]
	return ok
}

// Valid reports whether in belongs to the closed set.
func (in Input) Valid() bool {
	_, ok := table[StateOff][in]
	return ok
}

// ParseState converts a string into a State.
func ParseState(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownState, s)
	}
	return st, nil
}

// ParseInput converts a string into an Input.
func ParseInput(s string) (Input, error) {
	in := Input(s)
	if !in.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownInput, s)
	}
	return in, nil
}
