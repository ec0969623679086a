package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/meshrunner/pkg/config"
)

func writeMeshYAML(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh.yaml"), []byte(content), 0o644))
}

func TestLoad_MissingFileFallsBackToDefaultsAndFailsValidation(t *testing.T) {
	dir := t.TempDir()
	_, err := config.Load(dir)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr, "defaults name no pipes, so validation must still fail")
}

func TestLoad_MergesUserYAMLOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	writeMeshYAML(t, dir, `
topology:
  pipes:
    - [orders, billing, ledger]
runner:
  kind: multi-threaded
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"orders", "billing", "ledger"}}, cfg.Topology.Pipes)
	assert.Equal(t, config.RunnerKindMultiThreaded, cfg.Runner.Kind)
	assert.Equal(t, "second", cfg.Log.BucketSize, "bucket_size left unset by user must keep the built-in default")
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MESH_BUCKET_SIZE", "hour")
	writeMeshYAML(t, dir, `
topology:
  pipes:
    - [orders]
log:
  bucket_size: ${MESH_BUCKET_SIZE}
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "hour", cfg.Log.BucketSize)
}

func TestLoad_RejectsUnreadableYAML(t *testing.T) {
	dir := t.TempDir()
	writeMeshYAML(t, dir, "topology: [this is not valid: :::")

	_, err := config.Load(dir)
	var lerr *config.LoadError
	require.ErrorAs(t, err, &lerr)
}

func TestValidate_RejectsUnknownRunnerKind(t *testing.T) {
	cfg := config.Defaults()
	cfg.Topology.Pipes = [][]string{{"a", "b"}}
	cfg.Runner.Kind = "sideways"

	err := config.Validate(cfg)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "runner", verr.Component)
}

func TestValidate_RejectsUnknownBucketSize(t *testing.T) {
	cfg := config.Defaults()
	cfg.Topology.Pipes = [][]string{{"a", "b"}}
	cfg.Log.BucketSize = "fortnight"

	err := config.Validate(cfg)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "log", verr.Component)
}

func TestValidate_RejectsEmptyPipe(t *testing.T) {
	cfg := config.Defaults()
	cfg.Topology.Pipes = [][]string{{}}

	err := config.Validate(cfg)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pipe", verr.Component)
}
