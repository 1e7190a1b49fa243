package cron

import "fmt"

// Predefined errors
var (
	// ErrNoTasks is returned when a chain is added without any tasks
	ErrNoTasks = fmt.Errorf("cron: no tasks provided")

	// ErrInvalidSpec is returned when a cron spec cannot be parsed
	ErrInvalidSpec = fmt.Errorf("cron: invalid cron spec")

	// ErrCronClosed is returned when adding a chain to a closed manager
	ErrCronClosed = fmt.Errorf("cron: manager is closed")
)
