// Package runner declares the contract both concurrency disciplines
// (singlethread, multithread) implement, plus the error kinds they share.
package runner

import (
	"errors"
	"fmt"

	"github.com/eventflow/meshrunner/pkg/app"
)

// Runner starts a topology.System's applications, routes prompts between
// them, and tears them down again.
type Runner interface {
	// Start constructs every application in the topology and wires
	// leader/follower edges. It returns ErrAlreadyStarted if called twice
	// without an intervening Stop.
	Start() error

	// Stop releases every constructed application. It is safe to call
	// more than once and safe to call on a Runner that was never started.
	Stop()

	// Get returns the running instance registered under name, or
	// ErrUnknownApplication if name isn't a node in the topology or the
	// runner hasn't been started.
	Get(name string) (app.Application, error)
}

// Prompter is satisfied by a Runner that can accept a manually injected
// prompt for a leader from outside the topology — an operator or test
// harness standing in for the leader's own publish. Both concurrency
// disciplines implement it; pkg/adminapi uses it for its /prompt route.
type Prompter interface {
	// InjectPrompt behaves as if leaderName had just published a new
	// notification: every downstream follower of leaderName is told to
	// pull and process. It returns ErrUnknownApplication if the runner
	// has not been started.
	InjectPrompt(leaderName string) error
}

// Sentinel errors shared by every Runner implementation.
var (
	// ErrAlreadyStarted is returned by Start when the runner is already
	// running.
	ErrAlreadyStarted = errors.New("runner: already started")

	// ErrUnknownApplication is returned by Get for a name not present in
	// the topology, or not yet constructed.
	ErrUnknownApplication = errors.New("runner: unknown application")
)

// WorkerStartFailure wraps the error a per-follower worker raised while
// constructing its application, with the follower name that failed.
type WorkerStartFailure struct {
	Name string
	Err  error
}

func (e *WorkerStartFailure) Error() string {
	return fmt.Sprintf("runner: worker %q failed to start: %v", e.Name, e.Err)
}

func (e *WorkerStartFailure) Unwrap() error {
	return e.Err
}
