package counter

import (
	"context"
	"math/rand/v2"
	"time"
)

// Interval — диапазон случайной задержки [Min, Max] с шагом в миллисекунду.
type Interval struct {
	Min time.Duration
	Max time.Duration
}

var (
	// StopModeInterval — задержка между инкрементами в режиме stop.
	StopModeInterval = Interval{Min: 300 * time.Millisecond, Max: 1200 * time.Millisecond}
	// ResetModeInterval — задержка между инкрементами в режиме reset.
	ResetModeInterval = Interval{Min: 100 * time.Millisecond, Max: 320 * time.Millisecond}
	// SnapshotInterval — задержка между снимками.
	SnapshotInterval = Interval{Min: 6000 * time.Millisecond, Max: 12000 * time.Millisecond}
)

// ResetDelay — пауза перед новым поколением.
const ResetDelay = 100 * time.Millisecond

// IsZero сообщает, что интервал не задан.
func (i Interval) IsZero() bool {
	return i.Min == 0 && i.Max == 0
}

// Pick возвращает равномерно распределённую задержку из интервала.
func (i Interval) Pick() time.Duration {
	if i.Max <= i.Min {
		return i.Min
	}
	span := int64((i.Max - i.Min) / time.Millisecond)
	return i.Min + time.Duration(rand.Int64N(span+1))*time.Millisecond
}

// sleep ждёт d или отмены ctx.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
