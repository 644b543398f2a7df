/*
Package notify provides Hub, an in-process publish/subscribe list.

A Hub keeps an ordered list of Subscribers and delivers every message to
each of them, in subscription order, synchronously. The Hub never owns its
subscribers: whoever created a subscriber releases it with Unsubscribe or by
cancelling the Subscription handle returned by Subscribe.

	hub := notify.New()
	john := notify.NewSubscriber(func(msg string) { fmt.Println("john:", msg) })
	sub := hub.Subscribe(john)
	hub.Notify("10% off")
	sub.Cancel()

Subscribing the same subscriber twice is allowed and produces two deliveries
per Notify call. Subscribers are compared by identity, so implementations
should be pointer types.

Notify iterates over a snapshot of the list taken when the call starts:
a subscriber that subscribes or unsubscribes from inside Receive affects
later Notify calls only.
*/
package notify
