package cron

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lingualoop/go-core/logger"
)

// chainJob runs its tasks in order and aborts at the first failure.
type chainJob struct {
	name   string
	tasks  []Task
	logger logger.Logger
}

func (j *chainJob) Run() {
	ctx := context.Background()

	j.logger.Debug("chain started", zap.String("chain", j.name))

	for _, task := range j.tasks {
		if err := task.Run(ctx); err != nil {
			j.logger.Error("chain aborted",
				zap.String("chain", j.name),
				zap.String("task", task.Name()),
				zap.Error(err))
			return
		}
	}

	j.logger.Debug("chain completed", zap.String("chain", j.name))
}

type cronManager struct {
	cron        *cron.Cron
	middlewares []Middleware
	logger      logger.Logger
	closed      atomic.Bool
}

func newCronManager(log logger.Logger, mws ...Middleware) *cronManager {
	return &cronManager{
		cron:        cron.New(cron.WithSeconds()),
		middlewares: mws,
		logger:      log,
	}
}

func (m *cronManager) Start() {
	m.cron.Start()
}

func (m *cronManager) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("cron scheduler stopped")
}

func (m *cronManager) AddTasks(name, spec string, tasks ...Task) error {
	if m.closed.Load() {
		return ErrCronClosed
	}
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	wrapped := make([]Task, len(tasks))
	for i, task := range tasks {
		// chain-qualified names keep log lines attributable when the
		// same task runs in multiple chains
		wrapped[i] = applyMiddlewares(&wrappedTask{
			name: fmt.Sprintf("%s:%s", name, task.Name()),
			exec: task.Run,
		}, m.middlewares...)
	}

	job := &chainJob{
		name:   name,
		tasks:  wrapped,
		logger: m.logger,
	}

	if _, err := m.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("%w %q for chain %s: %v", ErrInvalidSpec, spec, name, err)
	}

	m.logger.Info("chain added",
		zap.String("chain", name),
		zap.String("spec", spec),
		zap.Int("task_count", len(tasks)))

	return nil
}

func (m *cronManager) AddChain(chain Chain) error {
	return m.AddTasks(chain.Name, chain.Spec, chain.Tasks...)
}
