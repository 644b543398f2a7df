package notify

// Subscription is a non-owning handle to one entry in a Hub.
// The zero value is inert.
type Subscription struct {
	// ID uniquely identifies the entry (a UUID).
	ID  string
	hub *Hub
}

// Cancel removes this entry from its hub. It reports whether the entry was
// still present; cancelling twice is a no-op.
func (s Subscription) Cancel() bool {
	if s.hub == nil || s.ID == "" {
		return false
	}
	return s.hub.cancel(s.ID)
}
