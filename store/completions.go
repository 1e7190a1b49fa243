package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lingualoop/go-core/logger"
	"github.com/lingualoop/go-core/progress"
)

// completionStore persists lesson completion rows. Rows are insert-only;
// the unique pair index turns a concurrent double-insert into
// ErrCompletionExists instead of a second row.
type completionStore struct {
	logger logger.Logger
	db     *gorm.DB
}

func (s *completionStore) Find(ctx context.Context, userID, lessonID string) (*progress.LessonCompletion, error) {
	var rec lessonCompletionRecord
	err := s.db.WithContext(ctx).
		First(&rec, "user_id = ? AND lesson_id = ?", userID, lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, progress.ErrCompletionNotFoundFor(userID, lessonID)
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (s *completionStore) Create(ctx context.Context, c *progress.LessonCompletion) (*progress.LessonCompletion, error) {
	rec := newCompletionRecord(c)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			s.logger.Debug("duplicate completion insert mapped to conflict",
				zap.String("user_id", c.UserID),
				zap.String("lesson_id", c.LessonID))
			return nil, progress.ErrCompletionExistsFor(c.UserID, c.LessonID)
		}
		return nil, err
	}
	return rec.toDomain(), nil
}
