package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lingualoop/go-core/logger"
	"github.com/lingualoop/go-core/progress"
)

// lessonStore reads lesson rows for the progress engine.
type lessonStore struct {
	logger logger.Logger
	db     *gorm.DB
}

func (s *lessonStore) Find(ctx context.Context, lessonID string) (*progress.Lesson, error) {
	var rec lessonRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, progress.ErrLessonNotFoundFor(lessonID)
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}
