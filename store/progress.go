package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lingualoop/go-core/logger"
	"github.com/lingualoop/go-core/progress"
)

// progressStore persists per-user progress rows.
type progressStore struct {
	logger logger.Logger
	db     *gorm.DB
}

func (s *progressStore) Find(ctx context.Context, userID string) (*progress.UserProgress, error) {
	var rec userProgressRecord
	err := s.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, progress.ErrProgressNotFoundFor(userID)
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (s *progressStore) Create(ctx context.Context, p *progress.UserProgress) (*progress.UserProgress, error) {
	rec := newProgressRecord(p)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, progress.ErrProgressExistsFor(p.UserID)
		}
		return nil, err
	}
	s.logger.Debug("created user progress row", zap.String("user_id", rec.UserID))
	return rec.toDomain(), nil
}

func (s *progressStore) Update(ctx context.Context, userID string, update progress.ProgressUpdate) (*progress.UserProgress, error) {
	var rec userProgressRecord
	err := s.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, progress.ErrProgressNotFoundFor(userID)
	}
	if err != nil {
		return nil, err
	}

	// Applied columns mirror the record mutation so the returned row
	// matches what was written without a second read.
	now := time.Now()
	changes := map[string]any{"last_activity_date": now}
	rec.LastActivityDate = now
	if update.ExperiencePoints != nil {
		rec.ExperiencePoints = *update.ExperiencePoints
		changes["experience_points"] = rec.ExperiencePoints
	}
	if update.LivesCurrent != nil {
		rec.LivesCurrent = *update.LivesCurrent
		changes["lives_current"] = rec.LivesCurrent
	}
	if update.StreakCurrent != nil {
		rec.StreakCurrent = *update.StreakCurrent
		changes["streak_current"] = rec.StreakCurrent
	}
	if update.LastCompletedLessonID != nil {
		rec.LastCompletedLessonID = update.LastCompletedLessonID
		changes["last_completed_lesson_id"] = *update.LastCompletedLessonID
	}

	err = s.db.WithContext(ctx).
		Model(&userProgressRecord{}).
		Where("user_id = ?", userID).
		Updates(changes).Error
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}
