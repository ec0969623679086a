// Package app declares the capability contracts that the topology and
// runner packages dispatch against. meshrunner never inspects business
// state — it only calls these methods.
package app

// Application is a named unit of business logic: the node of a topology.
// Implementations must be constructible with no arguments (see
// topology.Registry) and report a stable ClassName used as their node key.
type Application interface {
	ClassName() string
}

// Promptable accepts prompts naming a leader whose log may have new
// notifications. Runners, and multithread's per-follower workers, satisfy
// this so that Leader.Lead can target either one.
type Promptable interface {
	ReceivePrompt(leaderName string)
}

// Leader publishes a notification log and emits prompts to every target
// registered via Lead. Log returns an opaque handle — the core never
// inspects it beyond passing it to Follower.Follow. Lead may be called
// more than once for a leader with several downstream followers; each
// call registers an additional target rather than replacing the last.
type Leader interface {
	Application
	Log() any
	Lead(target Promptable)
}

// Follower pulls from upstream leaders' logs and processes new entries.
// Follow registers an upstream leader by name together with its log
// handle; PullAndProcess drains whatever is new since the last call for
// that leader name.
type Follower interface {
	Application
	Promptable
	Follow(leaderName string, leaderLog any)
	PullAndProcess(leaderName string)
}

// ProcessApplication is the intersection capability required of any node
// that has both inbound and outbound edges (spec.md invariant L2).
type ProcessApplication interface {
	Leader
	Follower
}

// Capability is an explicit, queryable tag describing what an application
// class can do. topology.System consults these instead of probing
// interface membership on a live instance (see spec.md §9 "Capability
// probing"), so validation never has to construct an application just to
// type-assert it.
type Capability uint8

const (
	// CapApplication is implied by every registered class.
	CapApplication Capability = 1 << iota
	// CapLeader marks a class whose instances implement Leader.
	CapLeader
	// CapFollower marks a class whose instances implement Follower.
	CapFollower
	// CapProcessApplication marks a class whose instances implement
	// ProcessApplication. A class may independently satisfy CapLeader and
	// CapFollower without this flag; invariant L2 in spec.md requires it
	// explicitly for any node used as a processor.
	CapProcessApplication
)

// Has reports whether c includes every bit set in want.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}
