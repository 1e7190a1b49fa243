package cron

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/lingualoop/go-core/logger"
)

// Middleware wraps a Task with additional behavior.
type Middleware func(Task) Task

// applyMiddlewares wraps t so that the first middleware runs outermost:
// applyMiddlewares(task, a, b) executes a(b(task)).
func applyMiddlewares(t Task, mws ...Middleware) Task {
	for i := len(mws) - 1; i >= 0; i-- {
		t = mws[i](t)
	}
	return t
}

// recoveryMiddleware converts a task panic into a returned error so a
// misbehaving task aborts only its chain, not the process.
func recoveryMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return &wrappedTask{
			name: next.Name(),
			exec: func(ctx context.Context) (err error) {
				defer func() {
					if r := recover(); r != nil {
						log.Error("task panicked",
							zap.String("task", next.Name()),
							zap.Any("panic", r),
							zap.String("stack", string(debug.Stack())))
						err = fmt.Errorf("panic recovered: %v", r)
					}
				}()
				return next.Run(ctx)
			},
		}
	}
}

// loggingMiddleware logs task start, outcome and duration.
func loggingMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return &wrappedTask{
			name: next.Name(),
			exec: func(ctx context.Context) error {
				start := time.Now()
				log.Debug("task started", zap.String("task", next.Name()))

				err := next.Run(ctx)

				elapsed := time.Since(start)
				if err != nil {
					log.Error("task failed",
						zap.String("task", next.Name()),
						zap.Duration("elapsed", elapsed),
						zap.Error(err))
					return err
				}
				log.Info("task completed",
					zap.String("task", next.Name()),
					zap.Duration("elapsed", elapsed))
				return nil
			},
		}
	}
}

type wrappedTask struct {
	name string
	exec func(ctx context.Context) error
}

func (w *wrappedTask) Name() string { return w.name }

func (w *wrappedTask) Run(ctx context.Context) error { return w.exec(ctx) }
