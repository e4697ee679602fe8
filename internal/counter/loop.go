package counter

import (
	"context"

	models "github.com/RoGogDBD/writer-test/internal/model"
	"github.com/RoGogDBD/writer-test/internal/repository"
	"go.uber.org/zap"
)

// CounterLoop увеличивает счётчик со случайной задержкой до максимума.
//
// Поля:
//   - Store: хранилище, в которое сохраняется каждый шаг
//   - Cell: общее значение, которое читает SnapshotLoop
//   - Interval: диапазон задержки между шагами
//   - Logger: логгер
//   - OnError: политика обработки ошибок записи
type CounterLoop struct {
	Store    repository.Store
	Cell     *Cell
	Interval Interval
	Logger   *zap.Logger
	OnError  ErrorHandler
}

// Run выполняет инкременты, начиная с rec, пока счётчик не достигнет максимума.
//
// Первый инкремент выполняется сразу. Возвращает последнюю сохранённую запись.
func (l *CounterLoop) Run(ctx context.Context, rec models.CountRecord) (models.CountRecord, error) {
	limit := l.Store.MaxCount()
	l.Cell.Store(rec.Count)

	for rec.Count < limit {
		next, err := l.Store.IncrementCount(rec)
		if err != nil {
			if herr := l.OnError(OpSaveCount, err); herr != nil {
				return rec, herr
			}
		} else {
			rec = next
			l.Cell.Store(rec.Count)
			l.Logger.Info("Count", zap.Int64("count", rec.Count))
		}

		if rec.Count >= limit {
			break
		}
		if err := sleep(ctx, l.Interval.Pick()); err != nil {
			return rec, err
		}
	}

	l.Logger.Info("Reached max count", zap.Int64("max", limit))
	return rec, nil
}

// Start запускает Run в фоне.
func (l *CounterLoop) Start(ctx context.Context, rec models.CountRecord) *Handle {
	return Go(ctx, func(ctx context.Context) error {
		_, err := l.Run(ctx, rec)
		return err
	})
}

// SnapshotLoop периодически сохраняет снимки значения из Cell.
//
// Значение читается из Cell заново на каждом шаге, а не из хранилища.
type SnapshotLoop struct {
	Store    repository.Store
	Cell     *Cell
	Interval Interval
	Logger   *zap.Logger
	OnError  ErrorHandler
}

// Run пишет снимки, пока наблюдаемое значение меньше максимума.
// Первый снимок пишется сразу.
func (l *SnapshotLoop) Run(ctx context.Context) error {
	limit := l.Store.MaxCount()
	for {
		count := l.Cell.Load()
		if count >= limit {
			return nil
		}

		name, err := l.Store.WriteSnapshot(count)
		if err != nil {
			if herr := l.OnError(OpWriteSnapshot, err); herr != nil {
				return herr
			}
		} else {
			l.Logger.Info("Snapshot", zap.String("file", name), zap.Int64("count", count))
		}

		if err := sleep(ctx, l.Interval.Pick()); err != nil {
			return err
		}
	}
}

// Start запускает Run в фоне.
func (l *SnapshotLoop) Start(ctx context.Context) *Handle {
	return Go(ctx, l.Run)
}
