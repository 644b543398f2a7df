package ports

import "github.com/aretw0/arbor/pkg/notify"

// Publisher is the observer-side contract: an ordered, non-owning list of
// subscribers receiving broadcast messages.
type Publisher interface {
	// Subscribe appends s. Duplicates are kept.
	Subscribe(s notify.Subscriber) notify.Subscription

	// Unsubscribe removes the first occurrence of s, reporting whether it did.
	Unsubscribe(s notify.Subscriber) bool

	// Notify delivers message to every subscription, in order, and returns the delivery count.
	Notify(message string) int
}
