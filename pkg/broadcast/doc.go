// Package broadcast delivers typed messages to any number of subscribers.
//
// The session package uses it to tell independent listeners, such as the persist
// collaborator, that a pageview's session id is ready. Delivery never blocks the
// publisher: a subscriber whose buffer is full loses the message and is dropped.
//
//	b := broadcast.NewMemoryBroadcaster[mssession.Ready](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	go func() {
//		for msg := range sub.Receive(ctx) {
//			persist(msg.Data)
//		}
//	}()
//
// Subscriptions end when their context is cancelled, when Close is called on the
// subscriber, or when the broadcaster closes.
package broadcast
