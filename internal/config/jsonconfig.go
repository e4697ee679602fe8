package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Константы для имен переменных окружения
const (
	EnvStorageDir = "STORAGE_DIR"
	EnvMode       = "COUNTER_MODE"
	EnvMaxCount   = "MAX_COUNT"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFile    = "LOG_FILE"
	EnvConfig     = "CONFIG"
)

// Константы для флагов командной строки
const (
	FlagStorageDir = "s"
	FlagMode       = "m"
	FlagMaxCount   = "n"
	FlagLogLevel   = "l"
	FlagLogFile    = "log-file"
	FlagConfig     = "c"
)

// loadJSONConfig загружает JSON конфигурацию в v. Пустой путь — не ошибка.
func loadJSONConfig(filePath string, v any) error {
	if filePath == "" {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// GetConfigFilePathWithFlag получает путь к файлу конфигурации, учитывая явно переданный флаг.
// Используется после разбора флагов.
func GetConfigFilePathWithFlag(flagValue string) string {
	// Флаги имеют больший приоритет
	if flagValue != "" {
		return flagValue
	}
	// Затем проверяем переменную окружения
	return os.Getenv(EnvConfig)
}
