package config

// MeshConfig is the parsed, defaulted, and validated configuration for a
// meshrunner deployment: which pipes build the topology, which runner
// drives it, and how the notification log buckets and persists events.
type MeshConfig struct {
	Topology TopologyConfig `yaml:"topology"`
	Runner   RunnerConfig   `yaml:"runner"`
	Log      LogConfig      `yaml:"log"`
}

// TopologyConfig lists the pipes (ordered chains of topic names) that
// build a topology.System. Each pipe is resolved against a
// topology.Registry supplied by the host at startup — pkg/config never
// constructs application instances itself, it only reads the shape of
// the graph out of YAML.
type TopologyConfig struct {
	Pipes [][]string `yaml:"pipes"`
}

// RunnerConfig selects which concurrency discipline drives prompt
// propagation.
type RunnerConfig struct {
	Kind string `yaml:"kind"`
}

// Runner kind values accepted by RunnerConfig.Kind.
const (
	RunnerKindSingleThreaded = "single-threaded"
	RunnerKindMultiThreaded  = "multi-threaded"
)

// LogConfig configures the bucket granularity demo applications use for
// their notification log, and optional durable persistence of
// MessageLogged events. Synthetic leaders built by topology.LeaderCls
// always use second buckets and do not read this setting.
type LogConfig struct {
	BucketSize string          `yaml:"bucket_size"`
	Postgres   *PostgresConfig `yaml:"postgres,omitempty"`
}

// PostgresConfig enables pgstore-backed persistence. When Enabled is
// false (or the block is absent entirely), only the in-memory Bus
// carries events — matching spec.md's framing of the persistence layer
// as an external, optional collaborator.
type PostgresConfig struct {
	Enabled bool `yaml:"enabled"`
}
