package config

// Defaults returns the built-in configuration Load merges user YAML
// onto, so a mesh.yaml only needs to name the settings it wants to
// override.
func Defaults() *MeshConfig {
	return &MeshConfig{
		Runner: RunnerConfig{Kind: RunnerKindSingleThreaded},
		Log:    LogConfig{BucketSize: "second"},
	}
}
