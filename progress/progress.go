// Package progress implements the learner progress core: experience and
// streak calculation, synchronous lesson completion, and reconciliation of
// completion batches recorded while the client was offline.
//
// Persistence and lesson content stay behind the LessonLookup, ProgressStore
// and CompletionStore interfaces; in-memory implementations ship for tests
// and local runs.
package progress

import (
	"context"

	"github.com/lingualoop/go-core/events"
	"github.com/lingualoop/go-core/logger"
)

// Service applies lesson completions to user progress
type Service interface {
	// CompleteLesson records a synchronous lesson completion: it persists
	// the completion, accrues experience, advances the streak and refreshes
	// the progress row. It fails with an error wrapping ErrLessonNotFound
	// for an unknown lesson and ErrCompletionExists when the user already
	// completed it.
	CompleteLesson(ctx context.Context, userID, lessonID string, score *float64, timeSpentSeconds *int) (*CompletionResult, error)

	// SyncOfflineProgress replays a batch of client-recorded completions in
	// completed-at order. Items referencing unknown lessons and items that
	// fail unexpectedly are logged and skipped; items already persisted are
	// counted as duplicates and left untouched. The progress row receives at
	// most one aggregate update. Only a failure to read, create or update
	// the progress row itself is returned as an error.
	SyncOfflineProgress(ctx context.Context, userID string, batch OfflineBatch) (*SyncResult, error)
}

// Option customizes a Service created by New
type Option func(*service)

// WithPublisher emits a completion event after each persisted completion.
// Publish failures are logged and never affect the completion itself.
func WithPublisher(p events.Publisher) Option {
	return func(s *service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// New creates a progress Service over the given collaborators
func New(log logger.Logger, lessons LessonLookup, progressStore ProgressStore, completions CompletionStore, opts ...Option) (Service, error) {
	if lessons == nil {
		return nil, ErrNilDependency("lesson lookup")
	}
	if progressStore == nil {
		return nil, ErrNilDependency("progress store")
	}
	if completions == nil {
		return nil, ErrNilDependency("completion store")
	}

	s := &service{
		log:         log,
		lessons:     lessons,
		progress:    progressStore,
		completions: completions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}
