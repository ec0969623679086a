package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/eventflow/meshrunner/pkg/eventlog"
)

// Load reads mesh.yaml from configDir, expands ${VAR}/$VAR references,
// and merges it onto Defaults. A missing file is not an error: a
// deployment with no mesh.yaml runs entirely on the built-in defaults,
// though it will fail Validate since Defaults names no pipes.
func Load(configDir string) (*MeshConfig, error) {
	log := slog.With("config_dir", configDir)

	cfg := Defaults()
	path := filepath.Join(configDir, "mesh.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("no mesh.yaml found, using built-in defaults", "path", path)
			return cfg, Validate(cfg)
		}
		return nil, NewLoadError(path, err)
	}

	data = ExpandEnv(data)

	var user MeshConfig
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	if err := mergo.Merge(cfg, user, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging %s onto defaults: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	log.Info("configuration loaded",
		"pipes", len(cfg.Topology.Pipes),
		"runner_kind", cfg.Runner.Kind,
		"bucket_size", cfg.Log.BucketSize)
	return cfg, nil
}

// Validate checks cfg for structural problems that can be caught before
// a topology.System is even built: at least one non-empty pipe, a known
// runner kind, and a bucket size eventlog.ParseBucketSize accepts.
func Validate(cfg *MeshConfig) error {
	if len(cfg.Topology.Pipes) == 0 {
		return NewValidationError("topology", "pipes", "", ErrMissingRequiredField)
	}
	for i, pipe := range cfg.Topology.Pipes {
		id := fmt.Sprintf("#%d", i)
		if len(pipe) == 0 {
			return NewValidationError("pipe", id, "", ErrMissingRequiredField)
		}
		for _, topic := range pipe {
			if topic == "" {
				return NewValidationError("pipe", id, "", ErrInvalidValue)
			}
		}
	}

	switch cfg.Runner.Kind {
	case RunnerKindSingleThreaded, RunnerKindMultiThreaded:
	default:
		return NewValidationError("runner", cfg.Runner.Kind, "kind", ErrUnknownRunnerKind)
	}

	if _, err := eventlog.ParseBucketSize(cfg.Log.BucketSize); err != nil {
		return NewValidationError("log", cfg.Log.BucketSize, "bucket_size", err)
	}
	return nil
}
