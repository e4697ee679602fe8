package counter

import (
	"context"
	"errors"
)

// Handle управляет жизненным циклом фоновой задачи.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Go запускает fn в отдельной горутине и возвращает Handle для её остановки.
//
// Контекст, переданный в fn, отменяется при вызове Stop или отмене ctx.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer cancel()
		h.err = fn(ctx)
	}()
	return h
}

// Stop отменяет задачу и ждёт её завершения.
func (h *Handle) Stop() error {
	h.cancel()
	return h.Wait()
}

// Wait ждёт завершения задачи. Отмена контекста ошибкой не считается.
func (h *Handle) Wait() error {
	<-h.done
	if errors.Is(h.err, context.Canceled) {
		return nil
	}
	return h.err
}

// Done закрывается после завершения задачи.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
