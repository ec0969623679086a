package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventflow/meshrunner/pkg/config"
)

func TestDefaults_AreThemselvesValidApartFromMissingPipes(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, config.RunnerKindSingleThreaded, cfg.Runner.Kind)
	assert.Equal(t, "second", cfg.Log.BucketSize)
	assert.Empty(t, cfg.Topology.Pipes)

	cfg.Topology.Pipes = [][]string{{"orders"}}
	assert.NoError(t, config.Validate(cfg))
}
