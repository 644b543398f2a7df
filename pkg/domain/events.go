package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventExecute     EventType = "execute"
	EventNodeAdd     EventType = "node_add"
	EventNodeMove    EventType = "node_move"
	EventNodeRemove  EventType = "node_remove"
	EventNotify      EventType = "notify"
	EventSubscribe   EventType = "subscribe"
	EventUnsubscribe EventType = "unsubscribe"
	EventTransition  EventType = "transition"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event of the given type with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// TreeEvent represents an execution of the tree or a structural change to it.
type TreeEvent struct {
	EventBase
	// Parent is the name of the composite that changed (empty for executions).
	Parent string `json:"parent,omitempty"`
	// Node is the label or name of the node added, moved or removed.
	Node string `json:"node,omitempty"`
	// Labels holds the visited labels of an execution.
	Labels []string `json:"labels,omitempty"`
	// Err is set when a change was refused (e.g. a cycle).
	Err error `json:"-"`
}

// NotifyEvent represents a broadcast to the subscribers of a hub.
type NotifyEvent struct {
	EventBase
	Message   string `json:"message"`
	Delivered int    `json:"delivered"`
}

// SubscriptionEvent represents a subscriber joining or leaving a hub.
type SubscriptionEvent struct {
	EventBase
	SubscriptionID string `json:"subscription_id,omitempty"`
	Subscribers    int    `json:"subscribers"`
}

// TransitionEvent represents an input handled by the state machine.
type TransitionEvent struct {
	EventBase
	From     string `json:"from"`
	To       string `json:"to"`
	Input    string `json:"input"`
	Effect   string `json:"effect"`
	Accepted bool   `json:"accepted"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnExecute      func(context.Context, *TreeEvent)
	OnTreeChange   func(context.Context, *TreeEvent)
	OnNotify       func(context.Context, *NotifyEvent)
	OnSubscription func(context.Context, *SubscriptionEvent)
	OnTransition   func(context.Context, *TransitionEvent)
}
