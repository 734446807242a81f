package config

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost             = "0.0.0.0"
	DefaultServerPort             = 8080
	DefaultShutdownTimeoutSeconds = 15
	DefaultMaxUploadSizeMB        = 20

	// Processing defaults
	DefaultTaskTimeoutSeconds     = 600
	DefaultTaskTTLMinutes         = 60
	DefaultCleanupIntervalMinutes = 10

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
