// Package singlethread implements a cooperative Runner: every prompt is
// processed on whatever goroutine delivers it, and a re-entrant call to
// ReceivePrompt (a follower's own processing publishing a new prompt)
// never recurses — it enqueues and is drained by the call already in
// progress.
package singlethread

import (
	"sync"

	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/runner"
	"github.com/eventflow/meshrunner/pkg/topology"
)

// Runner is the single-threaded Runner implementation.
type Runner struct {
	sys *topology.System

	mu      sync.Mutex
	apps    map[string]app.Application
	started bool

	promptsReceived []string
	isPrompting     bool
}

// New builds a Runner over sys. Start must be called before any prompts
// are delivered.
func New(sys *topology.System) *Runner {
	return &Runner{sys: sys}
}

var _ runner.Runner = (*Runner)(nil)
var _ app.Promptable = (*Runner)(nil)
var _ runner.Prompter = (*Runner)(nil)

// Start constructs every follower and leaders-only application in the
// topology, then wires every edge: leader.Lead(runner), and
// follower.Follow(leaderName, leader.Log()).
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return runner.ErrAlreadyStarted
	}

	apps := make(map[string]app.Application, len(r.sys.Followers())+len(r.sys.LeadersOnly()))

	for _, name := range r.sys.Followers() {
		cls, err := r.sys.FollowerCls(name)
		if err != nil {
			return err
		}
		apps[name] = cls.New()
	}
	for _, name := range r.sys.LeadersOnly() {
		cls, err := r.sys.LeaderCls(name)
		if err != nil {
			return err
		}
		apps[name] = cls.New()
	}

	led := make(map[string]bool, len(r.sys.Leaders()))
	for _, edge := range r.sys.Edges() {
		leaderApp, ok := apps[edge.Leader]
		if !ok {
			return &runner.WorkerStartFailure{Name: edge.Leader, Err: runner.ErrUnknownApplication}
		}
		leader := leaderApp.(app.Leader)
		follower := apps[edge.Follower].(app.Follower)

		// Every follower of a leader is driven by the same target here (the
		// runner itself), so Lead only needs registering once per leader.
		if !led[edge.Leader] {
			leader.Lead(r)
			led[edge.Leader] = true
		}
		follower.Follow(edge.Leader, leader.Log())
	}

	r.apps = apps
	r.promptsReceived = nil
	r.isPrompting = false
	r.started = true
	return nil
}

// ReceivePrompt implements app.Promptable. A leader named leaderName has
// new notifications; every follower downstream of it is told to pull and
// process. If ReceivePrompt is already draining (this call arrived while
// processing an earlier prompt — typically a follower's own
// PullAndProcess synchronously publishing a new prompt), the name is
// enqueued and this call returns without recursing; the in-progress drain
// picks it up on its next iteration.
func (r *Runner) ReceivePrompt(leaderName string) {
	r.mu.Lock()
	if !containsString(r.promptsReceived, leaderName) {
		r.promptsReceived = append(r.promptsReceived, leaderName)
	}
	if r.isPrompting {
		r.mu.Unlock()
		return
	}
	r.isPrompting = true
	r.mu.Unlock()

	for {
		r.mu.Lock()
		if len(r.promptsReceived) == 0 {
			r.isPrompting = false
			r.mu.Unlock()
			return
		}
		prompt := r.promptsReceived[0]
		r.promptsReceived = r.promptsReceived[1:]
		followerNames := r.sys.LeadsTo(prompt)
		apps := r.apps
		r.mu.Unlock()

		for _, followerName := range followerNames {
			followerApp, ok := apps[followerName]
			if !ok {
				continue
			}
			followerApp.(app.Follower).PullAndProcess(prompt)
		}
	}
}

// InjectPrompt implements runner.Prompter by delivering leaderName to the
// same ReceivePrompt entry point a leader's own Lead target would use.
func (r *Runner) InjectPrompt(leaderName string) error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return runner.ErrUnknownApplication
	}
	r.ReceivePrompt(leaderName)
	return nil
}

// Stop releases every constructed application.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps = nil
	r.started = false
	r.promptsReceived = nil
	r.isPrompting = false
}

// Get returns the running instance registered under name.
func (r *Runner) Get(name string) (app.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[name]
	if !ok {
		return nil, runner.ErrUnknownApplication
	}
	return a, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
