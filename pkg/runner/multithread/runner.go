// Package multithread implements a Runner that gives every follower its
// own goroutine. A leader with several followers notifies each one's
// worker independently; there is no shared dedup queue like the
// single-threaded runner's, so the same leader name may be enqueued more
// than once for a worker that hasn't drained yet.
package multithread

import (
	"fmt"
	"sync"
	"time"

	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/runner"
	"github.com/eventflow/meshrunner/pkg/topology"
)

// workerReadyTimeout bounds how long Start waits for a freshly spawned
// worker to finish constructing its application before giving up on it.
const workerReadyTimeout = 1 * time.Second

// Runner is the multi-threaded Runner implementation: one worker
// goroutine per follower node, plus directly-constructed leaders-only
// applications that need no goroutine of their own.
type Runner struct {
	sys *topology.System

	mu         sync.Mutex
	workers    map[string]*worker
	leaderOnly map[string]app.Application
	started    bool
}

// New builds a Runner over sys.
func New(sys *topology.System) *Runner {
	return &Runner{sys: sys}
}

var _ runner.Runner = (*Runner)(nil)
var _ runner.Prompter = (*Runner)(nil)

// Start spawns one worker per follower node, waits up to
// workerReadyTimeout for each to finish constructing its application,
// constructs leaders-only applications directly, then wires every edge:
// follower.Follow(leaderName, leader.Log()) and
// leader.Lead(workers[followerName]).
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return runner.ErrAlreadyStarted
	}

	workers := make(map[string]*worker, len(r.sys.Followers()))

	for _, name := range r.sys.Followers() {
		cls, err := r.sys.FollowerCls(name)
		if err != nil {
			stopAll(workers)
			return err
		}
		w := newWorker(name, cls)
		workers[name] = w
		go w.run()
	}

	for name, w := range workers {
		select {
		case <-w.ready:
			if w.failErr != nil {
				stopAll(workers)
				return &runner.WorkerStartFailure{Name: name, Err: w.failErr}
			}
		case <-time.After(workerReadyTimeout):
			stopAll(workers)
			return &runner.WorkerStartFailure{Name: name, Err: fmt.Errorf("worker did not become ready within %s", workerReadyTimeout)}
		}
	}

	leaderOnly := make(map[string]app.Application, len(r.sys.LeadersOnly()))
	for _, name := range r.sys.LeadersOnly() {
		cls, err := r.sys.LeaderCls(name)
		if err != nil {
			stopAll(workers)
			return err
		}
		leaderOnly[name] = cls.New()
	}

	leaderApp := func(name string) (app.Leader, bool) {
		if w, ok := workers[name]; ok {
			if l, ok := w.follower.(app.Leader); ok {
				return l, true
			}
			return nil, false
		}
		if a, ok := leaderOnly[name]; ok {
			return a.(app.Leader), true
		}
		return nil, false
	}

	for _, edge := range r.sys.Edges() {
		leader, ok := leaderApp(edge.Leader)
		if !ok {
			stopAll(workers)
			return &runner.WorkerStartFailure{Name: edge.Leader, Err: runner.ErrUnknownApplication}
		}
		follower := workers[edge.Follower].follower
		follower.Follow(edge.Leader, leader.Log())
		leader.Lead(workers[edge.Follower])
	}

	r.workers = workers
	r.leaderOnly = leaderOnly
	r.started = true
	return nil
}

func stopAll(workers map[string]*worker) {
	for _, w := range workers {
		w.stop()
	}
}

// InjectPrompt implements runner.Prompter. Unlike the single-threaded
// runner (which is itself the Promptable every leader targets),
// multithread wires leaders directly to each downstream worker, so there
// is no single sink to deliver to: InjectPrompt looks up the topology's
// own fan-out and enqueues leaderName on every one of leaderName's
// workers, the same delivery a real Lead call would have produced.
func (r *Runner) InjectPrompt(leaderName string) error {
	r.mu.Lock()
	workers := r.workers
	started := r.started
	r.mu.Unlock()
	if !started {
		return runner.ErrUnknownApplication
	}
	for _, followerName := range r.sys.LeadsTo(leaderName) {
		if w, ok := workers[followerName]; ok {
			w.ReceivePrompt(leaderName)
		}
	}
	return nil
}

// Stop signals every worker to exit and waits for all of them to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	workers := r.workers
	r.workers = nil
	r.leaderOnly = nil
	r.started = false
	r.mu.Unlock()

	stopAll(workers)
}

// Get returns the running instance registered under name: a follower's
// application if name names a worker, or a directly constructed
// leaders-only application otherwise.
func (r *Runner) Get(name string) (app.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.workers[name]; ok {
		return w.follower.(app.Application), nil
	}
	if a, ok := r.leaderOnly[name]; ok {
		return a, nil
	}
	return nil, runner.ErrUnknownApplication
}
