package driven

// ConfigStore provides persistent key-value configuration for the
// engine: retrieval weights, chunking sizes, model names, API keys.
// Keys use dot notation (e.g. "search.vector_weight").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and true if found, nil and false otherwise.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if not found or wrong type.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if not found or wrong type.
	GetInt(key string) int

	// GetFloat retrieves a float configuration value.
	// Returns 0 if not found or wrong type.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	// Returns false if not found or wrong type.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if not found or wrong type.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error
}
