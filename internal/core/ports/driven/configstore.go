package driven

// ConfigStore provides persistent key-value configuration storage.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error

	// Delete removes a configuration value.
	Delete(key string) error

	// Save persists the configuration to storage.
	Save() error

	// Load reads the configuration from storage.
	Load() error
}
