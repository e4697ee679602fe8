package version

import "go.uber.org/zap"

var (
	// buildVersion — версия сборки приложения.
	buildVersion string
	// buildDate — дата сборки приложения.
	buildDate string
	// buildCommit — хеш коммита сборки.
	buildCommit string
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Fields возвращает информацию о сборке в виде полей zap.
// Незаданные значения заменяются на "N/A".
func Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", orNA(buildVersion)),
		zap.String("date", orNA(buildDate)),
		zap.String("commit", orNA(buildCommit)),
	}
}

// Log выводит информацию о сборке в лог.
func Log(logger *zap.Logger) {
	logger.Info("Build info", Fields()...)
}
