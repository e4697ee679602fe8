package counter

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	models "github.com/RoGogDBD/writer-test/internal/model"
	"github.com/RoGogDBD/writer-test/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fast = Interval{Min: time.Millisecond, Max: 2 * time.Millisecond}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func snapshotMillis(t *testing.T, path string) int64 {
	t.Helper()
	name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "snapshot-"), ".json")
	n, err := strconv.ParseInt(name, 10, 64)
	require.NoError(t, err)
	return n
}

func TestCounterLoop_RunsToCompletion(t *testing.T) {
	store := repository.NewFileStore(t.TempDir(), 3, nil)
	logger, logs := observedLogger()
	cell := &Cell{}

	loop := &CounterLoop{
		Store:    store,
		Cell:     cell,
		Interval: fast,
		Logger:   logger,
		OnError:  Abort,
	}

	rec, err := store.LoadCount()
	require.NoError(t, err)

	final, err := loop.Run(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, int64(3), final.Count)
	require.Equal(t, int64(3), cell.Load())

	persisted, err := store.LoadCount()
	require.NoError(t, err)
	require.Equal(t, int64(3), persisted.Count)

	// Повторный запуск на максимуме ничего не инкрементирует.
	again, err := loop.Run(context.Background(), persisted)
	require.NoError(t, err)
	require.Equal(t, persisted, again)

	require.Equal(t, 3, logs.FilterMessage("Count").Len())
	require.Equal(t, 2, logs.FilterMessage("Reached max count").Len())
}

func TestCounterLoop_StopHandle(t *testing.T) {
	store := repository.NewMemStore(1_000_000)
	cell := &Cell{}
	loop := &CounterLoop{
		Store:    store,
		Cell:     cell,
		Interval: Interval{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond},
		Logger:   nopLogger(),
		OnError:  Abort,
	}

	h := loop.Start(context.Background(), models.CountRecord{})
	require.Eventually(t, func() bool { return cell.Load() >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, h.Stop())

	stopped := cell.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, stopped, cell.Load())
	require.Less(t, stopped, store.MaxCount())
}

type failingStore struct {
	*repository.MemStore
	failIncrement bool
	failSnapshot  bool
	snapshotCalls atomic.Int64
}

var errDisk = errors.New("disk full")

func (f *failingStore) IncrementCount(rec models.CountRecord) (models.CountRecord, error) {
	if f.failIncrement {
		return rec, errDisk
	}
	return f.MemStore.IncrementCount(rec)
}

func (f *failingStore) WriteSnapshot(count int64) (string, error) {
	f.snapshotCalls.Add(1)
	if f.failSnapshot {
		return "", errDisk
	}
	return f.MemStore.WriteSnapshot(count)
}

func TestCounterLoop_ErrorPolicy(t *testing.T) {
	t.Run("abort", func(t *testing.T) {
		store := &failingStore{MemStore: repository.NewMemStore(3), failIncrement: true}
		loop := &CounterLoop{Store: store, Cell: &Cell{}, Interval: fast, Logger: nopLogger(), OnError: Abort}

		rec, err := loop.Run(context.Background(), models.CountRecord{})
		require.ErrorIs(t, err, errDisk)
		require.Equal(t, int64(0), rec.Count)
	})

	t.Run("continue until cancelled", func(t *testing.T) {
		store := &failingStore{MemStore: repository.NewMemStore(3), failIncrement: true}
		var failures atomic.Int64
		loop := &CounterLoop{
			Store:    store,
			Cell:     &Cell{},
			Interval: fast,
			Logger:   nopLogger(),
			OnError: func(op string, err error) error {
				if op == OpSaveCount {
					failures.Add(1)
				}
				return nil
			},
		}

		h := loop.Start(context.Background(), models.CountRecord{})
		require.Eventually(t, func() bool { return failures.Load() >= 3 }, time.Second, time.Millisecond)
		require.NoError(t, h.Stop())
	})
}

func TestSnapshotLoop_ReadsLiveCell(t *testing.T) {
	store := repository.NewFileStore(t.TempDir(), 5, nil)
	logger, logs := observedLogger()
	cell := &Cell{}

	loop := &SnapshotLoop{
		Store:    store,
		Cell:     cell,
		Interval: fast,
		Logger:   logger,
		OnError:  Abort,
	}
	h := loop.Start(context.Background())

	require.Eventually(t, func() bool { return logs.FilterMessage("Snapshot").Len() >= 2 }, time.Second, time.Millisecond)
	cell.Store(2)
	require.Eventually(t, func() bool {
		for _, e := range logs.FilterMessage("Snapshot").All() {
			if e.ContextMap()["count"] == int64(2) {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
	cell.Store(5)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("snapshot loop did not stop at max")
	}
	require.NoError(t, h.Wait())

	entries := logs.FilterMessage("Snapshot").All()
	var prevCount, prevMillis int64 = -1, -1
	for _, e := range entries {
		fields := e.ContextMap()
		count := fields["count"].(int64)
		millis := snapshotMillis(t, fields["file"].(string))
		require.GreaterOrEqual(t, count, prevCount)
		require.Greater(t, millis, prevMillis)
		prevCount, prevMillis = count, millis

		rec, err := repository.ReadSnapshot(fields["file"].(string))
		require.NoError(t, err)
		require.Equal(t, count, rec.Count)
	}
	require.Less(t, prevCount, int64(5))
}

func TestSnapshotLoop_FailuresDoNotStopLoop(t *testing.T) {
	store := &failingStore{MemStore: repository.NewMemStore(5), failSnapshot: true}
	cell := &Cell{}
	loop := &SnapshotLoop{
		Store:    store,
		Cell:     cell,
		Interval: fast,
		Logger:   nopLogger(),
		OnError:  LogAndContinue(nopLogger()),
	}

	h := loop.Start(context.Background())
	require.Eventually(t, func() bool { return store.snapshotCalls.Load() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, h.Stop())
	require.Empty(t, store.SnapshotRecords())
}
