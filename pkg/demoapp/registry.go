package demoapp

import (
	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/topology"
)

// stageClass registers every topic as a Stage: since Stage already
// carries every capability (Leader, Follower, ProcessApplication), it
// validates against whichever role topology.New's graph derivation
// assigns the node — leaders-only, follower-only, or processor — without
// needing to know that role up front. Topic and node name are the same
// string for the demo registry.
func stageClass(topic, bucketSize string) topology.Class {
	return topology.Class{
		Name:         topic,
		Topic:        topic,
		Capabilities: app.CapApplication | app.CapLeader | app.CapFollower | app.CapProcessApplication,
		New: func() app.Application {
			stage, err := NewStage(topic, bucketSize)
			if err != nil {
				// bucketSize was already validated by config.Validate before
				// this constructor is ever reachable.
				panic(err)
			}
			return stage
		},
	}
}

// BuildRegistry flattens every topic named across pipes and registers a
// Stage class for each one, at the given bucket granularity. It is the
// registry cmd/meshrunner builds when no host-specific one is supplied.
func BuildRegistry(pipes [][]string, bucketSize string) *topology.StaticRegistry {
	seen := make(map[string]bool)
	registry := topology.NewStaticRegistry()
	for _, pipe := range pipes {
		for _, topic := range pipe {
			if topic == "" || seen[topic] {
				continue
			}
			seen[topic] = true
			registry.Register(stageClass(topic, bucketSize))
		}
	}
	return registry
}
