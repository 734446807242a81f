package config

// Default values for bot configuration.
const (
	DefaultPollingIntervalSeconds = 2
	// Порог выбора формата отчета: меньше — текстовый список, иначе Excel.
	DefaultExcelThreshold     = 50
	DefaultMaxFilesHint       = 10
	DefaultSessionTTLMinutes  = 30
	DefaultHTTPTimeoutSeconds = 30

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
