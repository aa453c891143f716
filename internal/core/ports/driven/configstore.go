package driven

// Configuration keys understood by clipper. Nested TOML tables are
// flattened into dot-notation keys.
const (
	ConfigClientID          = "twitch.client_id"
	ConfigRequestsPerSecond = "twitch.requests_per_second"
	ConfigOutputDir         = "download.output_dir"
	ConfigMaxParallel       = "download.max_parallel"
	ConfigScanBudgetSeconds = "scan.budget_seconds"
	ConfigMetricsTextfile   = "metrics.textfile"
)

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a numeric configuration value as float64.
	// Returns 0 if key doesn't exist or isn't numeric.
	GetFloat(key string) float64

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Path returns the configuration file path.
	Path() string
}
