package topology

import "github.com/eventflow/meshrunner/pkg/app"

// Class describes one application class: a node's constructor plus the
// explicit capability tags System uses to validate the graph without
// instantiating anything. Name is the node key a pipe refers to; Topic is
// the opaque string a Registry resolves back to this Class.
type Class struct {
	Name         string
	Topic        string
	Capabilities app.Capability
	New          func() app.Application
}

// HasCapability reports whether c was registered with every capability in
// want.
func (c Class) HasCapability(want app.Capability) bool {
	return c.Capabilities.Has(want)
}

// Registry resolves the topic strings stored on a System's nodes back to
// constructible classes. Topic/class resolution is deliberately pluggable:
// a Registry might be a static map built from a YAML pipe configuration, a
// package-scoped init-time registration table, or anything else a host
// wants to supply.
type Registry interface {
	Resolve(topic string) (Class, error)
}

// StaticRegistry is a Registry backed by a fixed topic-to-class map,
// populated up front. It is the registry demoapp.BuildRegistry builds
// from the pipes of a parsed topology configuration file.
type StaticRegistry struct {
	classes map[string]Class
}

// NewStaticRegistry builds a StaticRegistry from the given classes, keyed
// by their Topic.
func NewStaticRegistry(classes ...Class) *StaticRegistry {
	r := &StaticRegistry{classes: make(map[string]Class, len(classes))}
	for _, c := range classes {
		r.classes[c.Topic] = c
	}
	return r
}

// Register adds or replaces a class under its Topic.
func (r *StaticRegistry) Register(c Class) {
	r.classes[c.Topic] = c
}

// Resolve implements Registry.
func (r *StaticRegistry) Resolve(topic string) (Class, error) {
	c, ok := r.classes[topic]
	if !ok {
		return Class{}, ErrUnknownTopic
	}
	return c, nil
}
