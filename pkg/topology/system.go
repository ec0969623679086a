// Package topology builds and validates the application graph: which
// classes lead which, which follow which, and which are both at once.
package topology

import "github.com/eventflow/meshrunner/pkg/app"

// Edge is an ordered (leader, follower) pair: follower pulls from leader.
type Edge struct {
	Leader   string
	Follower string
}

// System is the immutable result of resolving a set of pipes (ordered
// chains of class names) into a node/edge graph, validated against the
// registry's capability tags.
type System struct {
	registry Registry

	nodes       map[string]string // name -> topic
	nodeOrder   []string          // first-seen order, for deterministic iteration
	edges       []Edge
	leads       map[string][]string // leader name -> follower names, insertion order
	follows     map[string][]string // follower name -> leader names, insertion order
	leaderOrder []string
}

// Pipe is one left-to-right chain of classes; adjacent classes become a
// leader/follower edge.
type Pipe []Class

// New builds a System from pipes, resolving and validating every node
// against registry. Every class named anywhere in pipes is registered on
// registry as a side effect of New (via Register, when registry is a
// *StaticRegistry) so GetAppCls/LeaderCls/FollowerCls can resolve it back.
// Any other Registry is used as given and must already resolve every topic.
func New(registry Registry, pipes ...Pipe) (*System, error) {
	if len(pipes) == 0 {
		return nil, &ConfigurationError{Reason: "at least one pipe is required"}
	}

	sys := &System{
		registry: registry,
		nodes:    make(map[string]string),
		leads:    make(map[string][]string),
		follows:  make(map[string][]string),
	}

	if reg, ok := registry.(*StaticRegistry); ok {
		for _, pipe := range pipes {
			for _, c := range pipe {
				reg.Register(c)
			}
		}
	}

	for _, pipe := range pipes {
		if len(pipe) == 0 {
			return nil, &ConfigurationError{Reason: "pipe must name at least one class"}
		}
		var prev *Class
		for i := range pipe {
			cls := pipe[i]
			if cls.Name == "" {
				return nil, &ConfigurationError{Reason: "class in pipe has no name"}
			}
			if _, seen := sys.nodes[cls.Name]; !seen {
				sys.nodes[cls.Name] = cls.Topic
				sys.nodeOrder = append(sys.nodeOrder, cls.Name)
			}
			if prev != nil {
				if prev.Name == cls.Name {
					return nil, &ConfigurationError{Reason: "pipe names the same class as its own follower: " + cls.Name}
				}
				sys.addEdge(prev.Name, cls.Name)
			}
			prev = &pipe[i]
		}
	}

	if err := sys.validate(); err != nil {
		return nil, err
	}
	return sys, nil
}

func (s *System) addEdge(leaderName, followerName string) {
	for _, e := range s.edges {
		if e.Leader == leaderName && e.Follower == followerName {
			return
		}
	}
	s.edges = append(s.edges, Edge{Leader: leaderName, Follower: followerName})

	if _, ok := s.leads[leaderName]; !ok {
		s.leaderOrder = append(s.leaderOrder, leaderName)
	}
	s.leads[leaderName] = appendUnique(s.leads[leaderName], followerName)
	s.follows[followerName] = appendUnique(s.follows[followerName], leaderName)
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func (s *System) validate() error {
	for _, name := range s.Followers() {
		cls, err := s.resolve(name)
		if err != nil {
			return err
		}
		if !cls.HasCapability(app.CapFollower) {
			return &TypeMismatch{Name: name, Err: ErrNotFollower}
		}
	}
	for _, name := range s.Processors() {
		cls, err := s.resolve(name)
		if err != nil {
			return err
		}
		if !cls.HasCapability(app.CapProcessApplication) {
			return &TypeMismatch{Name: name, Err: ErrNotProcessApplication}
		}
	}
	return nil
}

func (s *System) resolve(name string) (Class, error) {
	topic, ok := s.nodes[name]
	if !ok {
		return Class{}, &ConfigurationError{Reason: "unknown node: " + name}
	}
	cls, err := s.registry.Resolve(topic)
	if err != nil {
		return Class{}, &ResolutionError{Name: name, Topic: topic, Err: err}
	}
	return cls, nil
}

// Leaders returns every node name with at least one outbound edge, in the
// order leaders were first established.
func (s *System) Leaders() []string {
	out := make([]string, len(s.leaderOrder))
	copy(out, s.leaderOrder)
	return out
}

// Followers returns every node name with at least one inbound edge, in
// first-seen order.
func (s *System) Followers() []string {
	var out []string
	for _, name := range s.nodeOrder {
		if _, ok := s.follows[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Processors returns nodes that are both a leader and a follower, in
// leader order.
func (s *System) Processors() []string {
	var out []string
	for _, name := range s.leaderOrder {
		if _, ok := s.follows[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// LeadersOnly returns leaders that are not also followers, in leader
// order.
func (s *System) LeadersOnly() []string {
	var out []string
	for _, name := range s.leaderOrder {
		if _, ok := s.follows[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Edges returns every (leader, follower) edge, in first-seen order.
func (s *System) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// LeadsTo returns the followers that should receive a prompt when name
// leads, in insertion order.
func (s *System) LeadsTo(name string) []string {
	out := make([]string, len(s.leads[name]))
	copy(out, s.leads[name])
	return out
}

// FollowsFrom returns the leaders that name follows, in insertion order.
func (s *System) FollowsFrom(name string) []string {
	out := make([]string, len(s.follows[name]))
	copy(out, s.follows[name])
	return out
}

// GetAppCls resolves the class registered for a node name.
func (s *System) GetAppCls(name string) (Class, error) {
	return s.resolve(name)
}

// LeaderCls resolves name's class and returns one guaranteed to carry the
// Leader capability: the class as registered if it already has it, or a
// synthetic wrapper class around it otherwise.
func (s *System) LeaderCls(name string) (Class, error) {
	cls, err := s.resolve(name)
	if err != nil {
		return Class{}, err
	}
	if cls.HasCapability(app.CapLeader) {
		return cls, nil
	}
	base := cls
	wrapped := Class{
		Name:         base.Name,
		Topic:        base.Topic,
		Capabilities: base.Capabilities | app.CapLeader,
		New: func() app.Application {
			leader, err := wrapAsLeader(base.Name, base.New())
			if err != nil {
				// "second" is always a valid bucket size; ParseBucketSize cannot fail here.
				panic(err)
			}
			return leader
		},
	}
	return wrapped, nil
}

// FollowerCls resolves name's class, asserting it already carries the
// Follower capability (unlike LeaderCls, there is no synthetic fallback:
// follower behavior cannot be synthesized from a bare Application).
func (s *System) FollowerCls(name string) (Class, error) {
	cls, err := s.resolve(name)
	if err != nil {
		return Class{}, err
	}
	if !cls.HasCapability(app.CapFollower) {
		return Class{}, &TypeMismatch{Name: name, Err: ErrNotFollower}
	}
	return cls, nil
}
