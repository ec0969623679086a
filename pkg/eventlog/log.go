package eventlog

import (
	"context"

	"github.com/google/uuid"
)

// Log is a named, bucketed, append-only sequence of messages. Appending
// never mutates prior entries; the only state a Log carries is its name
// and bucket size, both fixed at construction.
type Log struct {
	name       string
	bucketSize BucketSize
	bus        *Bus
}

// StartNewLog creates a Log named name, partitioned at bucketSize
// ("year", "hour", "hourly", ...; see ParseBucketSize), and publishes its
// Started event on bus. bus may be nil, in which case no event is
// published and AppendMessage never notifies anyone.
func StartNewLog(bus *Bus, name string, bucketSize string) (*Log, error) {
	bs, err := ParseBucketSize(bucketSize)
	if err != nil {
		return nil, err
	}
	l := &Log{name: name, bucketSize: bs, bus: bus}
	if bus != nil {
		bus.Publish(Started{EntityID: name, Name: name, BucketSize: bs})
	}
	return l, nil
}

// Subscribe registers fn to be called, synchronously, on every event this
// log publishes from now on (Started has already fired by the time
// StartNewLog returns, so subscribers only ever observe MessageLogged).
// Followers use this in Follow to buffer notifications they later drain
// in PullAndProcess, turning the log's push delivery into a pull one. A
// nil bus (see StartNewLog) makes Subscribe a no-op.
func (l *Log) Subscribe(fn func(DomainEvent)) (unsubscribe func()) {
	if l.bus == nil {
		return func() {}
	}
	return l.bus.Subscribe(fn)
}

// SubscribeStore persists every MessageLogged event this log publishes
// from now on into store, the same filtering eventlog.Subscribe applies
// to a raw Bus. It exists so a caller holding only a *Log (as returned by
// app.Leader.Log) can wire durable storage without reaching into the
// log's private bus. Append errors are reported to onError, if non-nil.
func (l *Log) SubscribeStore(store Store, onError func(error)) (unsubscribe func()) {
	return l.Subscribe(func(event DomainEvent) {
		ml, ok := event.(MessageLogged)
		if !ok {
			return
		}
		if err := store.Append(context.Background(), ml); err != nil && onError != nil {
			onError(err)
		}
	})
}

// Name returns the log's name.
func (l *Log) Name() string { return l.name }

// BucketSize returns the log's bucket size.
func (l *Log) BucketSize() BucketSize { return l.bucketSize }

// AppendMessage records message at the given level, computes which bucket
// it falls into from a freshly minted UUIDv7 event id, publishes the
// resulting MessageLogged event, and returns it.
func (l *Log) AppendMessage(message, level string) (MessageLogged, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return MessageLogged{}, err
	}
	ts := timestampFromUUID(id)
	event := MessageLogged{
		EntityID:   MakeBucketID(l.name, ts, l.bucketSize),
		EventID:    id,
		OccurredAt: ts,
		Message:    message,
		Level:      level,
	}
	if l.bus != nil {
		l.bus.Publish(event)
	}
	return event, nil
}
