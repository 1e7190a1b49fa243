package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLessonLookup is an in-memory LessonLookup for tests and local runs
type MemoryLessonLookup struct {
	mu      sync.RWMutex
	lessons map[string]Lesson
}

// NewMemoryLessonLookup creates an empty lookup
func NewMemoryLessonLookup() *MemoryLessonLookup {
	return &MemoryLessonLookup{lessons: make(map[string]Lesson)}
}

// Add registers a lesson, assigning an id when none is set, and returns it
func (m *MemoryLessonLookup) Add(lesson Lesson) Lesson {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lessons[lesson.ID] = lesson
	return lesson
}

// Find returns the lesson or an error wrapping ErrLessonNotFound
func (m *MemoryLessonLookup) Find(ctx context.Context, lessonID string) (*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lesson, ok := m.lessons[lessonID]
	if !ok {
		return nil, ErrLessonNotFoundFor(lessonID)
	}
	return &lesson, nil
}

// MemoryProgressStore is an in-memory ProgressStore for tests and local runs
type MemoryProgressStore struct {
	mu   sync.RWMutex
	rows map[string]*UserProgress
}

// NewMemoryProgressStore creates an empty store
func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{rows: make(map[string]*UserProgress)}
}

// Find returns a copy of the user's progress row
func (m *MemoryProgressStore) Find(ctx context.Context, userID string) (*UserProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[userID]
	if !ok {
		return nil, ErrProgressNotFoundFor(userID)
	}
	clone := *row
	return &clone, nil
}

// Create inserts the row and returns a copy of the stored form
func (m *MemoryProgressStore) Create(ctx context.Context, p *UserProgress) (*UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.UserID]; ok {
		return nil, ErrProgressExistsFor(p.UserID)
	}
	row := *p
	m.rows[p.UserID] = &row
	clone := row
	return &clone, nil
}

// Update applies the partial update and refreshes LastActivityDate
func (m *MemoryProgressStore) Update(ctx context.Context, userID string, update ProgressUpdate) (*UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[userID]
	if !ok {
		return nil, ErrProgressNotFoundFor(userID)
	}
	if update.ExperiencePoints != nil {
		row.ExperiencePoints = *update.ExperiencePoints
	}
	if update.LivesCurrent != nil {
		row.LivesCurrent = *update.LivesCurrent
	}
	if update.StreakCurrent != nil {
		row.StreakCurrent = *update.StreakCurrent
	}
	if update.LastCompletedLessonID != nil {
		lessonID := *update.LastCompletedLessonID
		row.LastCompletedLessonID = &lessonID
	}
	row.LastActivityDate = time.Now()
	clone := *row
	return &clone, nil
}

// completionKey joins the unique (user, lesson) pair
func completionKey(userID, lessonID string) string {
	return userID + "/" + lessonID
}

// MemoryCompletionStore is an in-memory CompletionStore for tests and
// local runs
type MemoryCompletionStore struct {
	mu   sync.RWMutex
	rows map[string]*LessonCompletion
}

// NewMemoryCompletionStore creates an empty store
func NewMemoryCompletionStore() *MemoryCompletionStore {
	return &MemoryCompletionStore{rows: make(map[string]*LessonCompletion)}
}

// Find returns a copy of the completion for the (user, lesson) pair
func (m *MemoryCompletionStore) Find(ctx context.Context, userID, lessonID string) (*LessonCompletion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[completionKey(userID, lessonID)]
	if !ok {
		return nil, ErrCompletionNotFoundFor(userID, lessonID)
	}
	clone := *row
	return &clone, nil
}

// Create inserts the completion, assigning an id when none is set
func (m *MemoryCompletionStore) Create(ctx context.Context, c *LessonCompletion) (*LessonCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := completionKey(c.UserID, c.LessonID)
	if _, ok := m.rows[key]; ok {
		return nil, ErrCompletionExistsFor(c.UserID, c.LessonID)
	}
	row := *c
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	m.rows[key] = &row
	clone := row
	return &clone, nil
}
