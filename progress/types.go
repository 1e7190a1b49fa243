package progress

import "time"

// Default values for a freshly created progress row
const (
	DefaultLives = 5
	MaxLives     = 10
)

// Lesson is the slice of lesson content the progress engine needs
type Lesson struct {
	// ID identifies the lesson
	ID string
	// ExperiencePoints is the base experience awarded on completion,
	// before score multipliers
	ExperiencePoints int
}

// UserProgress is the per-user progress row.
// Invariants: ExperiencePoints >= 0, LivesCurrent in [0, MaxLives],
// StreakCurrent >= 0. Rows are created lazily on first access and mutated
// only through ProgressStore.Update, which always refreshes
// LastActivityDate.
type UserProgress struct {
	UserID                string
	ExperiencePoints      int
	LivesCurrent          int
	StreakCurrent         int
	LastCompletedLessonID *string
	LastActivityDate      time.Time
}

// NewUserProgress returns a progress row with the platform defaults:
// zero experience, five lives, no streak
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:           userID,
		LivesCurrent:     DefaultLives,
		LastActivityDate: time.Now(),
	}
}

// ProgressUpdate is a partial update applied to a progress row.
// Nil fields are left unchanged. Every applied update refreshes
// LastActivityDate regardless of which fields are set.
type ProgressUpdate struct {
	ExperiencePoints      *int
	LivesCurrent          *int
	StreakCurrent         *int
	LastCompletedLessonID *string
}

// LessonCompletion records that a user completed a lesson.
// Exactly one row exists per (UserID, LessonID) pair; the pair's uniqueness
// is enforced by the CompletionStore and rows are never updated afterwards.
type LessonCompletion struct {
	ID               string
	UserID           string
	LessonID         string
	Score            *float64
	TimeSpentSeconds *int
	CompletedAt      time.Time
}

// CompletionItem is one client-recorded completion inside an offline batch
type CompletionItem struct {
	LessonID         string
	CompletedAt      time.Time
	Score            *float64
	TimeSpentSeconds *int
}

// OfflineBatch is a client-submitted list of completions recorded while
// offline, ordered by arrival. It is consumed once per sync call and never
// persisted as-is.
type OfflineBatch struct {
	Completions []CompletionItem
	// LastSyncAt is the client's view of its previous successful sync
	LastSyncAt time.Time
}

// SyncResult summarizes one reconciliation pass
type SyncResult struct {
	// SyncedCompletions counts items persisted by this pass
	SyncedCompletions int
	// SkippedDuplicates counts items already present, left untouched
	SkippedDuplicates int
	// UpdatedProgress is the progress row after the pass. When no experience
	// was gained it is the row as read before the loop.
	UpdatedProgress *UserProgress
}

// CompletionResult is the outcome of a synchronous lesson completion
type CompletionResult struct {
	Completion       *LessonCompletion
	ExperienceGained int
	Progress         *UserProgress
}
