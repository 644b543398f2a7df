package notify

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	id         string
	subscriber Subscriber
}

// Hub is an ordered, non-owning list of subscribers.
// It is safe for concurrent use; delivery happens outside the lock.
type Hub struct {
	mu      sync.Mutex
	entries []entry
	logger  *slog.Logger
	removed func(id string)
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRemoveHook registers fn to run after an entry leaves the hub, whether
// through Unsubscribe, Subscription.Cancel or Clear. fn runs outside the lock
// and receives the subscription id of the removed entry.
func WithRemoveHook(fn func(id string)) Option {
	return func(h *Hub) {
		h.removed = fn
	}
}

// New creates an empty hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe appends s to the list and returns a handle for that entry.
// Duplicates are kept: each subscription receives its own delivery.
// A nil subscriber is ignored and yields an inert handle.
func (h *Hub) Subscribe(s Subscriber) Subscription {
	if s == nil {
		return Subscription{}
	}

	id := uuid.NewString()

	h.mu.Lock()
	h.entries = append(h.entries, entry{id: id, subscriber: s})
	n := len(h.entries)
	h.mu.Unlock()

	h.logger.Debug("subscriber attached", "subscription_id", id, "subscribers", n)
	return Subscription{ID: id, hub: h}
}

// Unsubscribe removes the first subscription of s. It is a no-op if s is not subscribed.
// It reports whether an entry was removed.
func (h *Hub) Unsubscribe(s Subscriber) bool {
	if s == nil {
		return false
	}

	h.mu.Lock()
	i := slices.IndexFunc(h.entries, func(e entry) bool { return same(e.subscriber, s) })
	var id string
	if i >= 0 {
		id = h.entries[i].id
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	n := len(h.entries)
	h.mu.Unlock()

	if i < 0 {
		return false
	}
	h.detached(id, n)
	return true
}

// cancel removes the entry with the given subscription id.
func (h *Hub) cancel(id string) bool {
	h.mu.Lock()
	i := slices.IndexFunc(h.entries, func(e entry) bool { return e.id == id })
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	n := len(h.entries)
	h.mu.Unlock()

	if i < 0 {
		return false
	}
	h.detached(id, n)
	return true
}

func (h *Hub) detached(id string, remaining int) {
	h.logger.Debug("subscriber detached", "subscription_id", id, "subscribers", remaining)
	if h.removed != nil {
		h.removed(id)
	}
}

// Notify delivers message to every subscription present when the call starts,
// in subscription order, and returns the number of deliveries.
func (h *Hub) Notify(message string) int {
	h.mu.Lock()
	snapshot := slices.Clone(h.entries)
	h.mu.Unlock()

	for _, e := range snapshot {
		e.subscriber.Receive(message)
	}

	h.logger.Debug("message delivered", "message", message, "delivered", len(snapshot))
	return len(snapshot)
}

// Len returns the current number of subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear drops every subscription. The remove hook runs once per dropped entry.
func (h *Hub) Clear() {
	h.mu.Lock()
	dropped := h.entries
	h.entries = nil
	h.mu.Unlock()

	for _, e := range dropped {
		h.detached(e.id, 0)
	}
}
