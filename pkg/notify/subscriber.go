package notify

import "reflect"

// Subscriber receives messages broadcast by a Hub.
type Subscriber interface {
	Receive(message string)
}

// FuncSubscriber adapts a function to the Subscriber interface.
// Use it through a pointer so it can be compared by identity.
type FuncSubscriber struct {
	fn func(string)
}

// NewSubscriber wraps fn in a comparable Subscriber.
func NewSubscriber(fn func(message string)) *FuncSubscriber {
	return &FuncSubscriber{fn: fn}
}

// Receive calls the wrapped function.
func (s *FuncSubscriber) Receive(message string) {
	if s.fn != nil {
		s.fn(message)
	}
}

// same reports whether a and b are the same subscriber.
// Values of non-comparable dynamic types never match instead of panicking.
func same(a, b Subscriber) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}
