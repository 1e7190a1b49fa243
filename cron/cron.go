// Package cron schedules recurring maintenance work, such as cache
// sweeps and warm-up refreshes, on cron specs with seconds resolution.
// Tasks are grouped into chains that run sequentially and stop at the
// first failure.
package cron

import (
	"context"

	"github.com/lingualoop/go-core/logger"
)

// Task is one unit of scheduled work.
type Task interface {
	// Name identifies the task in logs.
	Name() string
	// Run executes the task.
	Run(ctx context.Context) error
}

// NewTask adapts a function to the Task interface.
func NewTask(name string, run func(ctx context.Context) error) Task {
	return &wrappedTask{name: name, exec: run}
}

// Chain is a named group of tasks sharing one schedule. Tasks run in
// order; a failing task aborts the rest of the chain for that firing.
type Chain struct {
	Name  string
	Spec  string
	Tasks []Task
}

// Cron manages scheduled task chains.
type Cron interface {
	// Start launches the scheduler. Further calls are no-ops.
	Start()
	// Close stops the scheduler and waits for running chains to finish.
	Close()
	// AddTasks registers a chain of tasks under the given cron spec.
	// The spec uses the six field format with a leading seconds field,
	// for example "0 */10 * * * *" for every ten minutes.
	AddTasks(name string, spec string, tasks ...Task) error
	// AddChain is shorthand for AddTasks over a Chain value.
	AddChain(chain Chain) error
}

// New creates a cron manager. Every task is wrapped with panic
// recovery and timing logs; extra middlewares run inside the built-in
// ones in the order given.
func New(log logger.Logger, mws ...Middleware) Cron {
	defaultMws := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return newCronManager(log, append(defaultMws, mws...)...)
}
