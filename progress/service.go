package progress

import (
	"context"
	"errors"
	"runtime/debug"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lingualoop/go-core/events"
	"github.com/lingualoop/go-core/logger"
)

// itemOutcome classifies one reconciled batch item
type itemOutcome int

const (
	// itemSkipped items count as neither synced nor duplicate
	itemSkipped itemOutcome = iota
	itemSynced
	itemDuplicate
)

// service implements the Service interface
type service struct {
	log         logger.Logger
	lessons     LessonLookup
	progress    ProgressStore
	completions CompletionStore
	publisher   events.Publisher
}

// CompleteLesson records a synchronous lesson completion
func (s *service) CompleteLesson(ctx context.Context, userID, lessonID string, score *float64, timeSpentSeconds *int) (*CompletionResult, error) {
	lesson, err := s.lessons.Find(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if _, err := s.completions.Find(ctx, userID, lessonID); err == nil {
		return nil, ErrCompletionExistsFor(userID, lessonID)
	} else if !errors.Is(err, ErrCompletionNotFound) {
		return nil, err
	}

	progress, err := s.findOrCreateProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	completion, err := s.completions.Create(ctx, &LessonCompletion{
		UserID:           userID,
		LessonID:         lessonID,
		Score:            score,
		TimeSpentSeconds: timeSpentSeconds,
		CompletedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	gained := CalculateExperience(lesson.ExperiencePoints, score)
	newXP := progress.ExperiencePoints + gained
	newStreak := CalculateStreak(progress.StreakCurrent, progress.LastActivityDate, now)

	updated, err := s.progress.Update(ctx, userID, ProgressUpdate{
		ExperiencePoints:      &newXP,
		StreakCurrent:         &newStreak,
		LastCompletedLessonID: &lessonID,
	})
	if err != nil {
		return nil, err
	}

	s.publishCompletion(ctx, completion, gained, events.SourceLesson)

	s.log.Info("lesson completed",
		zap.String("user_id", userID),
		zap.String("lesson_id", lessonID),
		zap.Int("experience_gained", gained),
		zap.Int("streak", newStreak),
	)
	return &CompletionResult{
		Completion:       completion,
		ExperienceGained: gained,
		Progress:         updated,
	}, nil
}

// SyncOfflineProgress replays a batch of client-recorded completions.
// Items are processed strictly in completed-at order; the order decides which
// lesson ends up as the progress row's last completed lesson.
func (s *service) SyncOfflineProgress(ctx context.Context, userID string, batch OfflineBatch) (*SyncResult, error) {
	items := make([]CompletionItem, len(batch.Completions))
	copy(items, batch.Completions)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CompletedAt.Before(items[j].CompletedAt)
	})

	progress, err := s.findOrCreateProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		synced        int
		duplicates    int
		totalGained   int
		lastProcessed string
	)
	for i := range items {
		outcome, gained := s.processItem(ctx, userID, items[i])
		switch outcome {
		case itemSynced:
			synced++
			totalGained += gained
		case itemDuplicate:
			duplicates++
		default:
			continue
		}
		// synced and duplicate items both count as processed, so a trailing
		// duplicate can become the last completed lesson
		lastProcessed = items[i].LessonID
	}

	result := &SyncResult{
		SyncedCompletions: synced,
		SkippedDuplicates: duplicates,
		UpdatedProgress:   progress,
	}
	if totalGained > 0 {
		newXP := progress.ExperiencePoints + totalGained
		updated, err := s.progress.Update(ctx, userID, ProgressUpdate{
			ExperiencePoints:      &newXP,
			LastCompletedLessonID: &lastProcessed,
		})
		if err != nil {
			return nil, err
		}
		result.UpdatedProgress = updated
	}

	s.log.Info("offline progress synced",
		zap.String("user_id", userID),
		zap.Int("batch_size", len(items)),
		zap.Int("synced", synced),
		zap.Int("skipped_duplicates", duplicates),
		zap.Int("experience_gained", totalGained),
		zap.Time("last_sync_at", batch.LastSyncAt),
	)
	return result, nil
}

// processItem reconciles a single batch item. Unexpected errors and panics
// are logged and turn the item into a skip; they never abort the batch.
func (s *service) processItem(ctx context.Context, userID string, item CompletionItem) (outcome itemOutcome, gained int) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("panic while reconciling offline completion",
				zap.String("user_id", userID),
				zap.String("lesson_id", item.LessonID),
				zap.Any("panic", rec),
				zap.String("stack", string(debug.Stack())),
			)
			outcome = itemSkipped
			gained = 0
		}
	}()

	lesson, err := s.lessons.Find(ctx, item.LessonID)
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			s.log.Warn("offline completion references unknown lesson",
				zap.String("user_id", userID),
				zap.String("lesson_id", item.LessonID),
			)
		} else {
			s.log.Error("lesson lookup failed",
				zap.String("user_id", userID),
				zap.String("lesson_id", item.LessonID),
				zap.Error(err),
			)
		}
		return itemSkipped, 0
	}

	if _, err := s.completions.Find(ctx, userID, item.LessonID); err == nil {
		// first write wins; a resubmitted score or time is discarded
		return itemDuplicate, 0
	} else if !errors.Is(err, ErrCompletionNotFound) {
		s.log.Error("completion lookup failed",
			zap.String("user_id", userID),
			zap.String("lesson_id", item.LessonID),
			zap.Error(err),
		)
		return itemSkipped, 0
	}

	completion, err := s.completions.Create(ctx, &LessonCompletion{
		UserID:           userID,
		LessonID:         item.LessonID,
		Score:            item.Score,
		TimeSpentSeconds: item.TimeSpentSeconds,
		CompletedAt:      item.CompletedAt,
	})
	if err != nil {
		if errors.Is(err, ErrCompletionExists) {
			// another writer got there first
			return itemDuplicate, 0
		}
		s.log.Error("completion create failed",
			zap.String("user_id", userID),
			zap.String("lesson_id", item.LessonID),
			zap.Error(err),
		)
		return itemSkipped, 0
	}

	gained = CalculateExperience(lesson.ExperiencePoints, item.Score)
	s.publishCompletion(ctx, completion, gained, events.SourceOfflineSync)
	return itemSynced, gained
}

// findOrCreateProgress returns the user's progress row, creating it with the
// platform defaults on first access
func (s *service) findOrCreateProgress(ctx context.Context, userID string) (*UserProgress, error) {
	p, err := s.progress.Find(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProgressNotFound) {
		return nil, err
	}

	created, err := s.progress.Create(ctx, NewUserProgress(userID))
	if err != nil {
		return nil, err
	}
	s.log.Info("created user progress with defaults", zap.String("user_id", userID))
	return created, nil
}

// publishCompletion emits a completion event when a publisher is configured.
// Publish failures are logged; the completion itself already persisted.
func (s *service) publishCompletion(ctx context.Context, completion *LessonCompletion, gained int, source string) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.CompletionEvent{
		UserID:           completion.UserID,
		LessonID:         completion.LessonID,
		CompletionID:     completion.ID,
		ExperienceGained: gained,
		Score:            completion.Score,
		TimeSpentSeconds: completion.TimeSpentSeconds,
		Source:           source,
		CompletedAt:      completion.CompletedAt,
	})
	if err != nil {
		s.log.Warn("completion event publish failed",
			zap.String("user_id", completion.UserID),
			zap.String("lesson_id", completion.LessonID),
			zap.Error(err),
		)
	}
}
