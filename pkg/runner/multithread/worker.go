package multithread

import (
	"fmt"
	"sync"

	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/topology"
)

// worker owns exactly one follower application and runs it on its own
// goroutine. Prompts arrive on promptCh; a bounded buffer plays the role
// the original runner gave a "prompted_names" slice plus a condition
// signal — the channel already carries both the queue and the wakeup.
type worker struct {
	name string
	cls  topology.Class

	follower app.Follower
	ready    chan struct{}
	failErr  error

	promptCh chan string

	isStopping chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
}

const promptBacklog = 256

func newWorker(name string, cls topology.Class) *worker {
	return &worker{
		name:       name,
		cls:        cls,
		ready:      make(chan struct{}),
		promptCh:   make(chan string, promptBacklog),
		isStopping: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// run constructs the worker's application, signals readiness on ready,
// then drains promptCh until stop is requested. It is meant to be
// launched with `go`.
func (w *worker) run() {
	defer close(w.done)

	if !w.construct() {
		return
	}

	for {
		select {
		case <-w.isStopping:
			return
		case leaderName := <-w.promptCh:
			w.follower.PullAndProcess(leaderName)
		}
	}
}

// construct builds the worker's application, recovering from a panic in
// cls.New the way the original runner treats a failed thread start: it
// records the failure in failErr before closing ready, and Start, seeing
// failErr set, returns a WorkerStartFailure.
func (w *worker) construct() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.failErr = fmt.Errorf("panic constructing application: %v", r)
			close(w.ready)
			ok = false
		}
	}()

	instance := w.cls.New()
	follower, isFollower := instance.(app.Follower)
	if !isFollower {
		w.failErr = fmt.Errorf("class %q does not implement Follower", w.name)
		close(w.ready)
		return false
	}
	w.follower = follower
	close(w.ready)
	return true
}

// ReceivePrompt implements app.Promptable for this worker: it enqueues
// leaderName without blocking the caller on the worker's own pace. A full
// buffer means the worker is badly behind; the send blocks rather than
// drop a prompt, matching the at-least-once delivery the single-threaded
// runner also guarantees. Once the worker is stopping, the prompt is
// discarded instead. Unlike the single-threaded runner's dedup queue,
// repeated prompts for the same leader are each enqueued separately.
func (w *worker) ReceivePrompt(leaderName string) {
	select {
	case w.promptCh <- leaderName:
	case <-w.isStopping:
	}
}

var _ app.Promptable = (*worker)(nil)

// stop signals the worker to exit and waits for its goroutine to return.
// Safe to call more than once.
func (w *worker) stop() {
	w.stopOnce.Do(func() { close(w.isStopping) })
	<-w.done
}
