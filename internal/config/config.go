package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/RoGogDBD/writer-test/internal/counter"
	models "github.com/RoGogDBD/writer-test/internal/model"
	"github.com/caarlos0/env/v11"
)

// Config — конфигурация процесса счётчика.
//
// Источники применяются по возрастанию приоритета:
// значения по умолчанию, JSON файл, переменные окружения, флаги.
type Config struct {
	StorageDir string `json:"storage_dir" env:"STORAGE_DIR"` // STORAGE_DIR или флаг -s
	Mode       string `json:"mode" env:"COUNTER_MODE"`       // COUNTER_MODE или флаг -m (stop|reset)
	MaxCount   int64  `json:"max_count" env:"MAX_COUNT"`     // MAX_COUNT или флаг -n
	LogLevel   string `json:"log_level" env:"LOG_LEVEL"`     // LOG_LEVEL или флаг -l
	LogFile    string `json:"log_file" env:"LOG_FILE"`       // LOG_FILE или флаг -log-file
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		StorageDir: "./storage",
		Mode:       string(counter.ModeStop),
		MaxCount:   models.MaxCount,
		LogLevel:   "info",
	}
}

// Load собирает конфигурацию из аргументов командной строки, окружения и JSON файла.
//
// args — аргументы без имени программы.
func Load(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("counter", flag.ContinueOnError)
	configPath := fs.String(FlagConfig, "", "Path to JSON config file")
	storageDir := fs.String(FlagStorageDir, cfg.StorageDir, "Storage directory")
	mode := fs.String(FlagMode, cfg.Mode, "Behaviour at max count: stop or reset")
	maxCount := fs.Int64(FlagMaxCount, cfg.MaxCount, "Max count")
	logLevel := fs.String(FlagLogLevel, cfg.LogLevel, "Log level: debug, info, warn, error")
	logFile := fs.String(FlagLogFile, cfg.LogFile, "Optional log file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := loadJSONConfig(GetConfigFilePathWithFlag(*configPath), cfg); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case FlagStorageDir:
			cfg.StorageDir = *storageDir
		case FlagMode:
			cfg.Mode = *mode
		case FlagMaxCount:
			cfg.MaxCount = *maxCount
		case FlagLogLevel:
			cfg.LogLevel = *logLevel
		case FlagLogFile:
			cfg.LogFile = *logFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет конфигурацию и нормализует режим.
func (c *Config) Validate() error {
	mode, err := counter.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	c.Mode = string(mode)

	if c.MaxCount <= 0 {
		return fmt.Errorf("invalid max count %d: must be positive", c.MaxCount)
	}
	if c.StorageDir == "" {
		return errors.New("storage directory is empty")
	}
	return nil
}

// CounterMode возвращает режим счётчика. Вызывать после Validate.
func (c *Config) CounterMode() counter.Mode {
	return counter.Mode(c.Mode)
}
