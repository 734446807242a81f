// Package config предоставляет управление конфигурацией бэкенд-сервера
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию HTTP-сервера
type Server struct {
	Host                   string `json:"host" yaml:"host"`
	Port                   int    `json:"port" yaml:"port"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	MaxUploadSizeMB        int    `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`
}

// Processing содержит конфигурацию обработки экспортов
type Processing struct {
	// TaskTimeoutSeconds — таймаут одной задачи, 0 — без ограничений
	TaskTimeoutSeconds int `json:"task_timeout_seconds" yaml:"task_timeout_seconds"`
	// TaskTTLMinutes — время жизни записи о задаче вместе с результатом
	TaskTTLMinutes int `json:"task_ttl_minutes" yaml:"task_ttl_minutes"`
	// CleanupIntervalMinutes — период очистки просроченных задач
	CleanupIntervalMinutes int `json:"cleanup_interval_minutes" yaml:"cleanup_interval_minutes"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Processing Processing `json:"processing" yaml:"processing"`
	Logging    Logging    `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию из config.yml, переменных окружения или .env файла
func LoadConfig() (*Config, error) {
	// .env файл опционален: полагаемся на окружение или config.yml
	_ = godotenv.Load()

	cfg, err := loadFromYAML("config.yml")
	if err != nil {
		cfg = loadFromEnv()
	}

	applyDefaults(cfg)
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения
func loadFromEnv() *Config {
	return &Config{
		Server: Server{
			Host:                   getEnv("SERVER_HOST", DefaultServerHost),
			Port:                   getEnvInt("SERVER_PORT", DefaultServerPort),
			ShutdownTimeoutSeconds: getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", DefaultShutdownTimeoutSeconds),
			MaxUploadSizeMB:        getEnvInt("MAX_UPLOAD_SIZE_MB", DefaultMaxUploadSizeMB),
		},
		Processing: Processing{
			TaskTimeoutSeconds:     getEnvInt("TASK_TIMEOUT_SECONDS", DefaultTaskTimeoutSeconds),
			TaskTTLMinutes:         getEnvInt("TASK_TTL_MINUTES", DefaultTaskTTLMinutes),
			CleanupIntervalMinutes: getEnvInt("CLEANUP_INTERVAL_MINUTES", DefaultCleanupIntervalMinutes),
		},
		Logging: Logging{
			Level:  getEnv("LOG_LEVEL", DefaultLogLevel),
			Format: getEnv("LOG_FORMAT", DefaultLogFormat),
		},
	}
}

// applyDefaults заполняет незаданные поля значениями по умолчанию
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = DefaultShutdownTimeoutSeconds
	}
	if cfg.Server.MaxUploadSizeMB == 0 {
		cfg.Server.MaxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	if cfg.Processing.TaskTTLMinutes == 0 {
		cfg.Processing.TaskTTLMinutes = DefaultTaskTTLMinutes
	}
	if cfg.Processing.CleanupIntervalMinutes == 0 {
		cfg.Processing.CleanupIntervalMinutes = DefaultCleanupIntervalMinutes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds должно быть положительным")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("server.max_upload_size_mb должно быть положительным")
	}

	if c.Processing.TaskTimeoutSeconds < 0 {
		return fmt.Errorf("processing.task_timeout_seconds должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.TaskTTLMinutes <= 0 {
		return fmt.Errorf("processing.task_ttl_minutes должно быть положительным")
	}

	if c.Processing.CleanupIntervalMinutes <= 0 {
		return fmt.Errorf("processing.cleanup_interval_minutes должно быть положительным")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt извлекает целочисленную переменную окружения или значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
