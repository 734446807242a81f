package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// BotConfig содержит конфигурацию Telegram-бота
type BotConfig struct {
	Token                  string `yaml:"token"`
	BackendURL             string `yaml:"backend_url"`
	PollingIntervalSeconds int    `yaml:"polling_interval_seconds"`
	// ExcelThreshold — число участников, начиная с которого вместо
	// текстового списка отправляется Excel-файл.
	ExcelThreshold int `yaml:"excel_threshold"`
	// MaxFilesHint — рекомендуемое число файлов за одну загрузку.
	// Показывается пользователю, жестко не ограничивается.
	MaxFilesHint       int `yaml:"max_files_hint"`
	SessionTTLMinutes  int `yaml:"session_ttl_minutes"`
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
}

// Logging содержит конфигурацию логирования бота
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config является оберткой для соответствия структуре YAML файла.
type Config struct {
	Bot     BotConfig `yaml:"bot"`
	Logging Logging   `yaml:"logging"`
}

// LoadBotConfig загружает конфигурацию бота из указанного файла.
// Токен может быть переопределен переменной окружения BOT_TOKEN
// (в том числе из .env файла).
func LoadBotConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bot config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read bot config file %s: %w", filename, err)
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if backendURL := os.Getenv("BACKEND_URL"); backendURL != "" {
		cfg.Bot.BackendURL = backendURL
	}

	// Устанавливаем значения по умолчанию
	botCfg := &cfg.Bot
	if botCfg.PollingIntervalSeconds == 0 {
		botCfg.PollingIntervalSeconds = DefaultPollingIntervalSeconds
	}
	if botCfg.ExcelThreshold == 0 {
		botCfg.ExcelThreshold = DefaultExcelThreshold
	}
	if botCfg.MaxFilesHint == 0 {
		botCfg.MaxFilesHint = DefaultMaxFilesHint
	}
	if botCfg.SessionTTLMinutes == 0 {
		botCfg.SessionTTLMinutes = DefaultSessionTTLMinutes
	}
	if botCfg.HTTPTimeoutSeconds == 0 {
		botCfg.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	return &cfg, nil
}

// Validate проверяет корректность конфигурации бота.
func (c *Config) Validate() error {
	if c.Bot.Token == "" || c.Bot.Token == "YOUR_TELEGRAM_BOT_TOKEN" {
		return fmt.Errorf("bot.token is not configured")
	}
	if c.Bot.BackendURL == "" {
		return fmt.Errorf("bot.backend_url cannot be empty")
	}
	if c.Bot.PollingIntervalSeconds <= 0 {
		return fmt.Errorf("bot.polling_interval_seconds must be positive")
	}
	if c.Bot.ExcelThreshold <= 0 {
		return fmt.Errorf("bot.excel_threshold must be positive")
	}
	if c.Bot.MaxFilesHint <= 0 {
		return fmt.Errorf("bot.max_files_hint must be positive")
	}
	if c.Bot.SessionTTLMinutes <= 0 {
		return fmt.Errorf("bot.session_ttl_minutes must be positive")
	}
	return nil
}
