// Package demoapp provides minimal Application/Leader/Follower/
// ProcessApplication implementations so cmd/meshrunner has something to
// run out of the box. Real deployments register their own business
// classes through a topology.Registry instead; this package exists only
// to exercise the wiring end to end, the way a framework's "hello world"
// handler exercises its router.
package demoapp

import (
	"log/slog"
	"sync"

	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/eventlog"
)

// inbox buffers MessageLogged events a Stage or Sink has subscribed to
// but not yet drained through PullAndProcess. It is what turns the push
// delivery of eventlog.Log.Subscribe into the pull semantics
// PullAndProcess implies.
type inbox struct {
	mu      sync.Mutex
	pending []eventlog.MessageLogged
}

func (b *inbox) push(ml eventlog.MessageLogged) {
	b.mu.Lock()
	b.pending = append(b.pending, ml)
	b.mu.Unlock()
}

func (b *inbox) drain() []eventlog.MessageLogged {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()
	return batch
}

// fanOut is the shared Lead/publish bookkeeping Source and Stage both
// need: a list of registered prompt targets, notified once per
// MessageLogged event.
type fanOut struct {
	name string

	mu      sync.Mutex
	targets []app.Promptable
}

func (f *fanOut) lead(target app.Promptable) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
}

func (f *fanOut) notify(_ eventlog.DomainEvent) {
	f.mu.Lock()
	targets := append([]app.Promptable(nil), f.targets...)
	f.mu.Unlock()
	for _, t := range targets {
		t.ReceivePrompt(f.name)
	}
}

func (f *fanOut) onMessageLogged(event eventlog.DomainEvent) {
	if _, ok := event.(eventlog.MessageLogged); ok {
		f.notify(event)
	}
}

// Source is a minimal Leader: it owns a notification log and an Emit
// method a host (or a timer) calls to publish a message, which in turn
// prompts every target registered via Lead. It never follows anything —
// it is only ever used as a leaders-only node.
type Source struct {
	name string
	log  *eventlog.Log
	fan  *fanOut
}

// NewSource starts a new log named name at the given bucket granularity
// and returns a Source publishing to it.
func NewSource(name, bucketSize string) (*Source, error) {
	bus := eventlog.NewBus()
	log, err := eventlog.StartNewLog(bus, name, bucketSize)
	if err != nil {
		return nil, err
	}
	fan := &fanOut{name: name}
	bus.Subscribe(fan.onMessageLogged)
	return &Source{name: name, log: log, fan: fan}, nil
}

func (s *Source) ClassName() string { return s.name }
func (s *Source) Log() any          { return s.log }
func (s *Source) Lead(t app.Promptable) { s.fan.lead(t) }

func (s *Source) Emit(message string) error {
	_, err := s.log.AppendMessage(message, "INFO")
	return err
}

var _ app.Leader = (*Source)(nil)

// Stage is a minimal ProcessApplication: it follows one or more upstream
// logs, buffering their notifications, and on PullAndProcess relays each
// one onward through its own log — giving it both the Follower and
// Leader capabilities a processor node needs.
type Stage struct {
	name   string
	logger *slog.Logger
	log    *eventlog.Log
	fan    *fanOut

	mu       sync.Mutex
	upstream map[string]*inbox
}

// NewStage starts a new log named name at the given bucket granularity
// and returns a Stage relaying through it.
func NewStage(name, bucketSize string) (*Stage, error) {
	bus := eventlog.NewBus()
	log, err := eventlog.StartNewLog(bus, name, bucketSize)
	if err != nil {
		return nil, err
	}
	fan := &fanOut{name: name}
	bus.Subscribe(fan.onMessageLogged)
	return &Stage{
		name:     name,
		logger:   slog.With("app", name),
		log:      log,
		fan:      fan,
		upstream: make(map[string]*inbox),
	}, nil
}

func (s *Stage) ClassName() string     { return s.name }
func (s *Stage) Log() any              { return s.log }
func (s *Stage) Lead(t app.Promptable) { s.fan.lead(t) }

func (s *Stage) Emit(message string) error {
	_, err := s.log.AppendMessage(message, "INFO")
	return err
}

// Follow subscribes to leaderLog so every notification it publishes from
// now on is buffered until PullAndProcess(leaderName) drains it.
func (s *Stage) Follow(leaderName string, leaderLog any) {
	log, ok := leaderLog.(*eventlog.Log)
	if !ok {
		s.logger.Error("follow: log handle is not *eventlog.Log", "leader", leaderName)
		return
	}
	box := &inbox{}
	log.Subscribe(func(event eventlog.DomainEvent) {
		if ml, ok := event.(eventlog.MessageLogged); ok {
			box.push(ml)
		}
	})
	s.mu.Lock()
	s.upstream[leaderName] = box
	s.mu.Unlock()
}

// PullAndProcess drains whatever leaderName has published since the last
// call, logging each one and relaying a derived message through this
// Stage's own log — which is what drives the prompt to its own
// downstream targets.
func (s *Stage) PullAndProcess(leaderName string) {
	s.mu.Lock()
	box, ok := s.upstream[leaderName]
	s.mu.Unlock()
	if !ok {
		return
	}

	for _, ml := range box.drain() {
		s.logger.Info("relaying notification", "leader", leaderName, "bucket", ml.EntityID, "message", ml.Message)
		if err := s.Emit(leaderName + ": " + ml.Message); err != nil {
			s.logger.Error("emit failed", "leader", leaderName, "error", err)
		}
	}
}

// ReceivePrompt implements app.Promptable directly on the Stage itself,
// for a host that wants to drive it without a runner in between.
func (s *Stage) ReceivePrompt(leaderName string) { s.PullAndProcess(leaderName) }

var _ app.ProcessApplication = (*Stage)(nil)

// Sink is a minimal terminal Follower: it buffers notifications from
// every upstream it follows and logs them through slog when
// PullAndProcess drains the buffer. It never leads anything.
type Sink struct {
	name   string
	logger *slog.Logger

	mu       sync.Mutex
	upstream map[string]*inbox
}

// NewSink returns a Sink named name.
func NewSink(name string) *Sink {
	return &Sink{name: name, logger: slog.With("app", name), upstream: make(map[string]*inbox)}
}

func (s *Sink) ClassName() string { return s.name }

func (s *Sink) Follow(leaderName string, leaderLog any) {
	log, ok := leaderLog.(*eventlog.Log)
	if !ok {
		s.logger.Error("follow: log handle is not *eventlog.Log", "leader", leaderName)
		return
	}
	box := &inbox{}
	log.Subscribe(func(event eventlog.DomainEvent) {
		if ml, ok := event.(eventlog.MessageLogged); ok {
			box.push(ml)
		}
	})
	s.mu.Lock()
	s.upstream[leaderName] = box
	s.mu.Unlock()
}

func (s *Sink) PullAndProcess(leaderName string) {
	s.mu.Lock()
	box, ok := s.upstream[leaderName]
	s.mu.Unlock()
	if !ok {
		return
	}
	for _, ml := range box.drain() {
		s.logger.Info("processed notification", "leader", leaderName, "bucket", ml.EntityID, "message", ml.Message)
	}
}

func (s *Sink) ReceivePrompt(leaderName string) { s.PullAndProcess(leaderName) }

var _ app.Follower = (*Sink)(nil)
