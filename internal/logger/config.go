package logger

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level" env:"LOG_LEVEL"`
	ConsoleEnabled bool   `yaml:"console_enabled" env:"LOG_CONSOLE_ENABLED"`
	ConsoleFormat  string `yaml:"console_format" env:"LOG_CONSOLE_FORMAT"`
	// ConsoleStderr sends console output to stderr, keeping stdout for
	// command output.
	ConsoleStderr  bool   `yaml:"console_stderr" env:"LOG_CONSOLE_STDERR"`
	FileEnabled    bool   `yaml:"file_enabled" env:"LOG_FILE_ENABLED"`
	FilePath       string `yaml:"file_path" env:"LOG_FILE_PATH"`
	FileFormat     string `yaml:"file_format" env:"LOG_FILE_FORMAT"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb" env:"LOG_FILE_MAX_SIZE_MB"`
	FileMaxBackups int    `yaml:"file_max_backups" env:"LOG_FILE_MAX_BACKUPS"`
	FileMaxAgeDays int    `yaml:"file_max_age_days" env:"LOG_FILE_MAX_AGE_DAYS"`
}

// loggingFile wraps the Config for YAML parsing
type loggingFile struct {
	Logging *Config `yaml:"logging"`
}

// DefaultConfig returns the logging defaults
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FilePath:       "logs/hexforge.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from the "logging" section of a
// YAML file and applies LOG_* environment overrides. Keys missing from the
// file keep their defaults; a missing or unreadable file yields defaults.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Decode over the defaults so absent keys keep them
			if err := yaml.Unmarshal(data, &loggingFile{Logging: &config}); err != nil {
				config = DefaultConfig()
			}
		}
	}

	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("failed to parse logging environment: %w", err)
	}

	return config, nil
}
