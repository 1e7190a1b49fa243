// Package events carries lesson-completion events between the progress core
// and downstream consumers over Kafka.
//
// Events are emitted after a completion row is persisted, JSON-encoded and
// keyed by user id so one user's events stay ordered within a partition.
package events

import (
	"context"
	"time"
)

// Source values for CompletionEvent
const (
	// SourceLesson marks a synchronous completion
	SourceLesson = "lesson"
	// SourceOfflineSync marks a completion replayed from an offline batch
	SourceOfflineSync = "offline_sync"
)

// CompletionEvent is emitted after a lesson completion is persisted
type CompletionEvent struct {
	UserID           string    `json:"user_id"`
	LessonID         string    `json:"lesson_id"`
	CompletionID     string    `json:"completion_id"`
	ExperienceGained int       `json:"experience_gained"`
	Score            *float64  `json:"score,omitempty"`
	TimeSpentSeconds *int      `json:"time_spent_seconds,omitempty"`
	Source           string    `json:"source"`
	CompletedAt      time.Time `json:"completed_at"`
	EmittedAt        time.Time `json:"emitted_at"`
}

// Publisher emits completion events to downstream consumers
type Publisher interface {
	// Publish enqueues the event for delivery. It does not block on broker
	// acknowledgement; delivery failures surface through logs
	Publish(ctx context.Context, event CompletionEvent) error

	// Close flushes pending events and releases the connection
	Close() error
}

// Handler processes one decoded completion event
type Handler func(ctx context.Context, event CompletionEvent) error

// Consumer delivers completion events to a handler
type Consumer interface {
	// Start launches the consume loop. It returns after the loop is running;
	// the loop stops when ctx is cancelled or the broker is lost
	Start(ctx context.Context, handler Handler) error

	// Close shuts the consumer down
	Close() error
}

// NopPublisher discards events, for deployments without a broker
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CompletionEvent) error { return nil }
func (NopPublisher) Close() error                                   { return nil }
