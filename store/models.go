package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingualoop/go-core/progress"
)

// lessonRecord is the lessons table. The progress engine only reads
// the id and the base experience value; the remaining columns belong
// to the content subsystem.
type lessonRecord struct {
	ID                   string `gorm:"primaryKey;size:36"`
	Title                string `gorm:"size:255"`
	BaseExperiencePoints int    `gorm:"not null;default:10"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (lessonRecord) TableName() string { return "lessons" }

func (r *lessonRecord) toDomain() *progress.Lesson {
	return &progress.Lesson{
		ID:               r.ID,
		ExperiencePoints: r.BaseExperiencePoints,
	}
}

// userProgressRecord is the user_progress table, one row per user.
type userProgressRecord struct {
	UserID                string  `gorm:"primaryKey;size:36"`
	ExperiencePoints      int     `gorm:"not null;default:0"`
	LivesCurrent          int     `gorm:"not null;default:5"`
	StreakCurrent         int     `gorm:"not null;default:0"`
	LastCompletedLessonID *string `gorm:"size:36"`
	LastActivityDate      time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (userProgressRecord) TableName() string { return "user_progress" }

func newProgressRecord(p *progress.UserProgress) *userProgressRecord {
	rec := &userProgressRecord{
		UserID:                p.UserID,
		ExperiencePoints:      p.ExperiencePoints,
		LivesCurrent:          p.LivesCurrent,
		StreakCurrent:         p.StreakCurrent,
		LastCompletedLessonID: p.LastCompletedLessonID,
		LastActivityDate:      p.LastActivityDate,
	}
	if rec.LastActivityDate.IsZero() {
		rec.LastActivityDate = time.Now()
	}
	return rec
}

func (r *userProgressRecord) toDomain() *progress.UserProgress {
	return &progress.UserProgress{
		UserID:                r.UserID,
		ExperiencePoints:      r.ExperiencePoints,
		LivesCurrent:          r.LivesCurrent,
		StreakCurrent:         r.StreakCurrent,
		LastCompletedLessonID: r.LastCompletedLessonID,
		LastActivityDate:      r.LastActivityDate,
	}
}

// lessonCompletionRecord is the lesson_completions table. The unique
// index over (user_id, lesson_id) enforces the one-completion-per-pair
// invariant at the database level.
type lessonCompletionRecord struct {
	ID               string   `gorm:"primaryKey;size:36"`
	UserID           string   `gorm:"size:36;not null;uniqueIndex:idx_user_lesson"`
	LessonID         string   `gorm:"size:36;not null;uniqueIndex:idx_user_lesson"`
	Score            *float64 `gorm:"type:decimal(5,2)"`
	TimeSpentSeconds *int
	CompletedAt      time.Time `gorm:"not null;index"`
	CreatedAt        time.Time
}

func (lessonCompletionRecord) TableName() string { return "lesson_completions" }

func (r *lessonCompletionRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func newCompletionRecord(c *progress.LessonCompletion) *lessonCompletionRecord {
	return &lessonCompletionRecord{
		ID:               c.ID,
		UserID:           c.UserID,
		LessonID:         c.LessonID,
		Score:            c.Score,
		TimeSpentSeconds: c.TimeSpentSeconds,
		CompletedAt:      c.CompletedAt,
	}
}

func (r *lessonCompletionRecord) toDomain() *progress.LessonCompletion {
	return &progress.LessonCompletion{
		ID:               r.ID,
		UserID:           r.UserID,
		LessonID:         r.LessonID,
		Score:            r.Score,
		TimeSpentSeconds: r.TimeSpentSeconds,
		CompletedAt:      r.CompletedAt,
	}
}
