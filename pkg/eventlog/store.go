package eventlog

import "context"

// Store durably persists MessageLogged events. It is an external
// collaborator, not a dependency of Log or Logger: a host wires a Store
// implementation (pgstore.Store, or a test fake) into a Bus subscription
// rather than Log calling it directly.
type Store interface {
	Append(ctx context.Context, event MessageLogged) error
}

// Subscribe wires store to bus, persisting every MessageLogged event
// published on it. Non-MessageLogged events (Started, BucketSizeChanged)
// are ignored. Append errors are reported to onError, if non-nil, rather
// than propagated: Bus.Publish has no error return, matching the
// fire-and-forget semantics of the notification log it replaces.
func Subscribe(bus *Bus, store Store, onError func(error)) (unsubscribe func()) {
	return bus.Subscribe(func(event DomainEvent) {
		ml, ok := event.(MessageLogged)
		if !ok {
			return
		}
		if err := store.Append(context.Background(), ml); err != nil && onError != nil {
			onError(err)
		}
	})
}
