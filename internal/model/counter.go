package models

import (
	"strings"
	"time"
)

// MaxCount — верхняя граница счётчика по умолчанию.
const MaxCount int64 = 2500

// TimestampLayout — формат меток времени в файлах хранилища (UTC, миллисекунды).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp — метка времени, сериализуемая в JSON как строка в формате TimestampLayout.
type Timestamp struct {
	time.Time
}

// Now возвращает текущее время в UTC, усечённое до миллисекунд.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp приводит t к UTC и усекает до миллисекунд.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// MarshalJSON реализует json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(TimestampLayout) + `"`), nil
}

// UnmarshalJSON реализует json.Unmarshaler.
//
// Принимает любую строку в формате RFC 3339.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

// CountRecord — текущее состояние счётчика (storage/count.json).
//
// Поля:
//   - Count: значение счётчика, 0 <= Count <= MaxCount
//   - LastUpdated: время последнего изменения
type CountRecord struct {
	Count       int64     `json:"count"`
	LastUpdated Timestamp `json:"lastUpdated"`
}

// GenerationRecord — номер поколения в режиме со сбросом (storage/generation.json).
type GenerationRecord struct {
	Generation int64     `json:"generation"`
	LastReset  Timestamp `json:"lastReset"`
}

// SnapshotRecord — неизменяемый снимок значения счётчика.
type SnapshotRecord struct {
	Count     int64     `json:"count"`
	Timestamp Timestamp `json:"timestamp"`
}
