/*
Package fsm implements the power state machine of a phone-like device.

The machine has a closed set of states (On, Off) and inputs (power, call,
volume). Every input is defined for every state, so Handle never gets stuck:
inputs that make no sense in the current state are rejected, which is a
normal outcome reported through Transition.Accepted, not an error.

	m, _ := fsm.New(fsm.StateOff)
	tr, _ := m.Handle(fsm.InputCall)  // off -> off, "call rejected: powered off"
	tr, _ = m.Handle(fsm.InputPower)  // off -> on,  "powering on"

There is no terminal state.
*/
package fsm
