package topology

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by System construction and class resolution.
var (
	// ErrUnknownTopic indicates a registry has no class registered under a
	// requested topic.
	ErrUnknownTopic = errors.New("topology: unknown topic")

	// ErrNotFollower indicates a node named by follows() resolves to a
	// class lacking the follower capability.
	ErrNotFollower = errors.New("topology: class is not a follower")

	// ErrNotProcessApplication indicates a node that is both a leader and
	// a follower resolves to a class lacking the process-application
	// capability (invariant L2).
	ErrNotProcessApplication = errors.New("topology: class is not a process application")
)

// ConfigurationError wraps a malformed pipe definition: an empty pipe, a
// pipe naming the same class twice in a row, or any other structural
// problem discovered while the graph is being built.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("topology: configuration error: %s", e.Reason)
}

// TypeMismatch wraps ErrNotFollower/ErrNotProcessApplication with the node
// name that failed the capability check.
type TypeMismatch struct {
	Name string
	Err  error
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("topology: %s: %v", e.Name, e.Err)
}

func (e *TypeMismatch) Unwrap() error {
	return e.Err
}

// ResolutionError wraps ErrUnknownTopic with the node name and topic that
// a Registry failed to resolve.
type ResolutionError struct {
	Name  string
	Topic string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("topology: resolving %s (topic %q): %v", e.Name, e.Topic, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
