package ports

import (
	"testing"

	"github.com/aretw0/arbor/pkg/notify"
	"github.com/stretchr/testify/assert"
)

// RunPublisherContract runs a suite of tests to verify that a Publisher
// implementation adheres to the defined interface contract.
// newPublisher must return a fresh, empty Publisher on every call.
func RunPublisherContract(t *testing.T, newPublisher func() Publisher) {
	t.Helper()

	collect := func(log *[]string, name string) *notify.FuncSubscriber {
		return notify.NewSubscriber(func(msg string) {
			*log = append(*log, name+":"+msg)
		})
	}

	t.Run("Subscribe Then Notify Delivers Once", func(t *testing.T) {
		var log []string
		p := newPublisher()
		p.Subscribe(collect(&log, "o"))

		assert.Equal(t, 1, p.Notify("m"))
		assert.Equal(t, []string{"o:m"}, log)
	})

	t.Run("Duplicate Subscription Delivers Twice", func(t *testing.T) {
		var log []string
		p := newPublisher()
		o := collect(&log, "o")
		p.Subscribe(o)
		p.Subscribe(o)

		assert.Equal(t, 2, p.Notify("m"))
		assert.Equal(t, []string{"o:m", "o:m"}, log)
	})

	t.Run("Unsubscribe Stops Delivery", func(t *testing.T) {
		var log []string
		p := newPublisher()
		o := collect(&log, "o")
		p.Subscribe(o)

		assert.True(t, p.Unsubscribe(o))
		assert.False(t, p.Unsubscribe(o), "second unsubscribe must be a no-op")
		assert.Equal(t, 0, p.Notify("m"))
		assert.Empty(t, log)
	})

	t.Run("Delivery Follows Subscription Order", func(t *testing.T) {
		var log []string
		p := newPublisher()
		p.Subscribe(collect(&log, "a"))
		p.Subscribe(collect(&log, "b"))
		p.Subscribe(collect(&log, "c"))

		p.Notify("m")
		assert.Equal(t, []string{"a:m", "b:m", "c:m"}, log)
	})

	t.Run("Unsubscribe Inside Callback Uses Snapshot", func(t *testing.T) {
		var log []string
		p := newPublisher()
		last := collect(&log, "last")
		var self *notify.FuncSubscriber
		self = notify.NewSubscriber(func(msg string) {
			log = append(log, "self:"+msg)
			p.Unsubscribe(self)
			p.Unsubscribe(last)
		})
		p.Subscribe(self)
		p.Subscribe(last)

		assert.Equal(t, 2, p.Notify("m"))
		assert.Equal(t, []string{"self:m", "last:m"}, log)
		assert.Equal(t, 0, p.Notify("again"))
	})
}
