// Package main запускает процесс счётчика.
//
// Счётчик увеличивается со случайной задержкой до максимума, периодически
// сохраняя снимки в каталог хранилища. В режиме reset после максимума
// хранилище очищается, поколение увеличивается, и счёт начинается заново.
//
// Использование:
//
//	go run ./cmd/counter -s ./storage -m reset
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RoGogDBD/writer-test/internal/config"
	"github.com/RoGogDBD/writer-test/internal/counter"
	"github.com/RoGogDBD/writer-test/internal/repository"
	"github.com/RoGogDBD/writer-test/internal/version"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatalf("counter failed: %v", err)
	}
}

// run собирает конфигурацию, хранилище и Runner и работает до завершения
// счётчика или отмены ctx.
func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := config.Initialize(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	version.Log(logger)

	store := repository.NewFileStore(cfg.StorageDir, cfg.MaxCount, logger)
	if err := store.Bootstrap(); err != nil {
		logger.Warn("Failed to prepare storage directory", zap.Error(err))
	}

	runner := counter.NewRunner(store, counter.Options{Mode: cfg.CounterMode()}, logger)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Counter stopped", zap.Error(err))
		return err
	}

	logger.Info("Counter finished", zap.Int64("count", runner.Cell().Load()))
	return nil
}
