package progress

import "context"

// LessonLookup resolves lesson ids to their base experience values
type LessonLookup interface {
	// Find returns the lesson, or an error wrapping ErrLessonNotFound when
	// no lesson has the given id
	Find(ctx context.Context, lessonID string) (*Lesson, error)
}

// ProgressStore persists per-user progress rows
type ProgressStore interface {
	// Find returns the user's progress row, or an error wrapping
	// ErrProgressNotFound when the user has none
	Find(ctx context.Context, userID string) (*UserProgress, error)

	// Create inserts a new progress row and returns the stored form.
	// It fails with an error wrapping ErrProgressExists when the user
	// already has one
	Create(ctx context.Context, p *UserProgress) (*UserProgress, error)

	// Update applies the partial update and returns the stored row.
	// It fails with an error wrapping ErrProgressNotFound when the user has
	// no row. Every update refreshes LastActivityDate.
	Update(ctx context.Context, userID string, update ProgressUpdate) (*UserProgress, error)
}

// CompletionStore persists lesson completions
type CompletionStore interface {
	// Find returns the completion for the (user, lesson) pair, or an error
	// wrapping ErrCompletionNotFound when none exists
	Find(ctx context.Context, userID, lessonID string) (*LessonCompletion, error)

	// Create inserts the completion and returns the stored form.
	// It fails with an error wrapping ErrCompletionExists when the
	// (user, lesson) pair already has one
	Create(ctx context.Context, c *LessonCompletion) (*LessonCompletion, error)
}
