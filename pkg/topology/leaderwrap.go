package topology

import (
	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/eventlog"
)

// syntheticLeader endows a plain Application with the Leader capability.
// It is the explicit wrapper object a System builds for a leaves-only
// node whose registered class never implemented app.Leader itself: rather
// than synthesizing a subclass at runtime (Go has no such thing), it
// embeds the base instance and owns a notification Log and a list of
// prompt targets of its own.
type syntheticLeader struct {
	app.Application
	name    string
	bus     *eventlog.Bus
	log     *eventlog.Log
	targets []app.Promptable
}

// wrapAsLeader builds a syntheticLeader around base, starting a new
// second-granularity notification log named after the node. The bucket
// size is arbitrary for a synthetic leader: nothing in this package reads
// from the log but Follower implementations the host supplies, so the
// choice only has to be a valid one. Every message appended to the log is
// what drives a prompt to every target Lead has registered.
func wrapAsLeader(name string, base app.Application) (*syntheticLeader, error) {
	bus := eventlog.NewBus()
	log, err := eventlog.StartNewLog(bus, name, "second")
	if err != nil {
		return nil, err
	}
	s := &syntheticLeader{Application: base, name: name, bus: bus, log: log}
	bus.Subscribe(func(eventlog.DomainEvent) {
		for _, target := range s.targets {
			target.ReceivePrompt(s.name)
		}
	})
	return s, nil
}

func (s *syntheticLeader) Log() any {
	return s.log
}

// Lead registers an additional prompt target. A leader with several
// downstream followers (the multi-threaded runner gives each its own
// worker) accumulates one target per follower rather than replacing the
// previous one.
func (s *syntheticLeader) Lead(target app.Promptable) {
	s.targets = append(s.targets, target)
}
