package counter

import (
	"context"
	"errors"
	"time"

	models "github.com/RoGogDBD/writer-test/internal/model"
	"github.com/RoGogDBD/writer-test/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options задаёт параметры Runner.
//
// Нулевые интервалы и задержка заменяются значениями по умолчанию для режима.
type Options struct {
	Mode             Mode
	CounterInterval  Interval
	SnapshotInterval Interval
	ResetDelay       time.Duration
	// Cycles — сколько поколений пройти в режиме reset (0 — бесконечно).
	Cycles  int
	OnError ErrorHandler
}

// Runner запускает CounterLoop и SnapshotLoop и управляет переходом между поколениями.
type Runner struct {
	store  repository.Store
	cell   *Cell
	opts   Options
	logger *zap.Logger
}

// NewRunner создаёт Runner поверх store.
func NewRunner(store repository.Store, opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Mode == "" {
		opts.Mode = ModeStop
	}
	if opts.CounterInterval.IsZero() {
		opts.CounterInterval = StopModeInterval
		if opts.Mode == ModeReset {
			opts.CounterInterval = ResetModeInterval
		}
	}
	if opts.SnapshotInterval.IsZero() {
		opts.SnapshotInterval = SnapshotInterval
	}
	if opts.ResetDelay == 0 {
		opts.ResetDelay = ResetDelay
	}
	if opts.OnError == nil {
		opts.OnError = DefaultErrorHandler(logger)
	}
	return &Runner{
		store:  store,
		cell:   &Cell{},
		opts:   opts,
		logger: logger,
	}
}

// Cell возвращает общее значение счётчика.
func (r *Runner) Cell() *Cell {
	return r.cell
}

// Start запускает Run в фоне.
func (r *Runner) Start(ctx context.Context) *Handle {
	return Go(ctx, r.Run)
}

// Run загружает состояние и крутит циклы счётчика.
//
// В режиме stop возвращается после достижения максимума. В режиме reset
// после каждого цикла очищает хранилище, увеличивает поколение и через
// ResetDelay начинает заново с нуля, пока не отменён ctx или не пройдено
// Options.Cycles поколений.
func (r *Runner) Run(ctx context.Context) error {
	rec, err := r.store.LoadCount()
	if err != nil {
		if herr := r.opts.OnError(OpLoadCount, err); herr != nil {
			return herr
		}
	}

	var generation int64
	if r.opts.Mode == ModeReset {
		generation = r.store.LoadGeneration()
	}

	for cycles := 0; ; {
		r.logger.Info("Starting counter",
			zap.Int64("from", rec.Count),
			zap.Int64("to", r.store.MaxCount()),
			zap.String("mode", string(r.opts.Mode)),
			zap.Int64("generation", generation),
		)

		if err := r.runCycle(ctx, rec); err != nil {
			return err
		}
		if r.opts.Mode != ModeReset {
			return nil
		}

		if err := r.store.ClearAll(); err != nil {
			if herr := r.opts.OnError(OpClearAll, err); herr != nil {
				return herr
			}
		}
		next, err := r.store.IncrementGeneration()
		if err != nil {
			if herr := r.opts.OnError(OpIncrementGeneration, err); herr != nil {
				return herr
			}
		} else {
			generation = next
		}
		r.logger.Info("Generation complete", zap.Int64("generation", generation))

		cycles++
		if r.opts.Cycles > 0 && cycles >= r.opts.Cycles {
			return nil
		}
		if err := sleep(ctx, r.opts.ResetDelay); err != nil {
			return err
		}

		rec = models.CountRecord{Count: 0, LastUpdated: models.Now()}
		r.cell.Store(0)
	}
}

// runCycle выполняет один цикл от rec.Count до максимума.
//
// SnapshotLoop останавливается вместе с CounterLoop.
func (r *Runner) runCycle(ctx context.Context, rec models.CountRecord) error {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.cell.Store(rec.Count)
	counter := &CounterLoop{
		Store:    r.store,
		Cell:     r.cell,
		Interval: r.opts.CounterInterval,
		Logger:   r.logger,
		OnError:  r.opts.OnError,
	}
	snapshots := &SnapshotLoop{
		Store:    r.store,
		Cell:     r.cell,
		Interval: r.opts.SnapshotInterval,
		Logger:   r.logger,
		OnError:  r.opts.OnError,
	}

	g, gctx := errgroup.WithContext(cycleCtx)
	g.Go(func() error {
		defer cancel()
		_, err := counter.Run(gctx, rec)
		return err
	})
	g.Go(func() error {
		err := snapshots.Run(gctx)
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil
		}
		return err
	})
	return g.Wait()
}
