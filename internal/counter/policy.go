package counter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Mode определяет поведение счётчика на максимуме.
type Mode string

const (
	// ModeStop — остановиться на максимуме.
	ModeStop Mode = "stop"
	// ModeReset — очистить хранилище, увеличить поколение и начать заново.
	ModeReset Mode = "reset"
)

// ParseMode разбирает строку режима без учёта регистра.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeStop, ModeReset:
		return m, nil
	default:
		return "", fmt.Errorf("unknown counter mode %q", s)
	}
}

// Операции, ошибки которых передаются в ErrorHandler.
const (
	OpLoadCount           = "load_count"
	OpSaveCount           = "save_count"
	OpWriteSnapshot       = "write_snapshot"
	OpClearAll            = "clear_all"
	OpIncrementGeneration = "increment_generation"
)

// ErrorHandler решает, что делать с ошибкой операции op.
// nil — продолжить работу, не-nil — прервать Runner с этой ошибкой.
type ErrorHandler func(op string, err error) error

// Abort прерывает работу на любой ошибке.
func Abort(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// LogAndContinue логирует ошибку и продолжает работу.
func LogAndContinue(logger *zap.Logger) ErrorHandler {
	return func(op string, err error) error {
		logger.Warn("Operation failed, continuing", zap.String("op", op), zap.Error(err))
		return nil
	}
}

// DefaultErrorHandler прерывает работу на ошибках записи счётчика и поколения,
// а ошибки снимков и очистки только логирует.
func DefaultErrorHandler(logger *zap.Logger) ErrorHandler {
	cont := LogAndContinue(logger)
	return func(op string, err error) error {
		switch op {
		case OpLoadCount, OpSaveCount, OpIncrementGeneration:
			return Abort(op, err)
		default:
			return cont(op, err)
		}
	}
}
