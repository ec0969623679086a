package config

import (
	"fmt"

	"github.com/eventflow/meshrunner/pkg/runner"
	"github.com/eventflow/meshrunner/pkg/runner/multithread"
	"github.com/eventflow/meshrunner/pkg/runner/singlethread"
	"github.com/eventflow/meshrunner/pkg/topology"
)

// BuildPipes resolves every topic name in cfg.Pipes against registry,
// turning the flat YAML configuration into the topology.Pipe values
// topology.New expects. Resolution happens here rather than inside
// topology.New so an unknown topic is reported with the pipe index that
// named it.
func BuildPipes(cfg *TopologyConfig, registry topology.Registry) ([]topology.Pipe, error) {
	pipes := make([]topology.Pipe, 0, len(cfg.Pipes))
	for i, names := range cfg.Pipes {
		pipe := make(topology.Pipe, 0, len(names))
		for _, topic := range names {
			cls, err := registry.Resolve(topic)
			if err != nil {
				return nil, NewValidationError("pipe", fmt.Sprintf("#%d", i), topic, ErrClassNotFound)
			}
			pipe = append(pipe, cls)
		}
		pipes = append(pipes, pipe)
	}
	return pipes, nil
}

// NewRunner builds the Runner implementation named by kind over sys.
func NewRunner(kind string, sys *topology.System) (runner.Runner, error) {
	switch kind {
	case RunnerKindSingleThreaded:
		return singlethread.New(sys), nil
	case RunnerKindMultiThreaded:
		return multithread.New(sys), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRunnerKind, kind)
	}
}
