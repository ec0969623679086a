package eventlog

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the marker type published through a Bus. Concrete event
// types below are what Bus subscribers type-switch on.
type DomainEvent interface {
	isDomainEvent()
}

// Started is published once, when a Log is first created.
type Started struct {
	EntityID   string
	Name       string
	BucketSize BucketSize
}

func (Started) isDomainEvent() {}

// BucketSizeChanged is part of the wire-compatible event taxonomy for
// hosts that want to mutate a Log's bucket size after creation. The
// bundled Log never emits it; nothing in this package subscribes to it.
type BucketSizeChanged struct {
	EntityID   string
	BucketSize BucketSize
}

func (BucketSizeChanged) isDomainEvent() {}

// MessageLogged is published on every Log.AppendMessage call. Unlike
// Started, it carries no entity version: messages within a log are not
// ordered relative to each other by anything but EventID/OccurredAt.
type MessageLogged struct {
	EntityID   string // bucket id the message falls into
	EventID    uuid.UUID
	OccurredAt time.Time
	Message    string
	Level      string
}

func (MessageLogged) isDomainEvent() {}

// timestampFromUUID extracts the millisecond timestamp a UUIDv7 encodes in
// its first 48 bits. This is what resolves event-id monotonicity: ids are
// generated with uuid.NewV7, so the bucket a message lands in is derived
// from its own id rather than from a separately read clock.
func timestampFromUUID(id uuid.UUID) time.Time {
	ms := uint64(id[0])<<40 | uint64(id[1])<<32 | uint64(id[2])<<24 |
		uint64(id[3])<<16 | uint64(id[4])<<8 | uint64(id[5])
	return time.UnixMilli(int64(ms)).UTC()
}
