package config

const (
	// DefaultReporter is the reporter used when none is requested.
	DefaultReporter = "text"
	// DefaultWorkers means "one worker per CPU".
	DefaultWorkers = 0
	// ConfigFileName is looked up at the project root.
	ConfigFileName = "quiver.yml"
	// EnvFileName is loaded into the environment before env lookups.
	EnvFileName = ".env"
	// EnvPrefix namespaces environment overrides (QUIVER_REPORTER, ...).
	EnvPrefix = "QUIVER_"
)
