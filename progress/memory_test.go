package progress

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryLessonLookup(t *testing.T) {
	lookup := NewMemoryLessonLookup()

	added := lookup.Add(Lesson{ExperiencePoints: 10})
	if added.ID == "" {
		t.Fatal("expected Add to assign an id")
	}

	found, err := lookup.Find(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found.ExperiencePoints != 10 {
		t.Errorf("ExperiencePoints = %d, want 10", found.ExperiencePoints)
	}

	if _, err := lookup.Find(context.Background(), "missing"); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("Find() error = %v, want wrapped %v", err, ErrLessonNotFound)
	}
}

func TestMemoryProgressStore_CreateAndFind(t *testing.T) {
	store := NewMemoryProgressStore()

	if _, err := store.Find(context.Background(), "user-1"); !errors.Is(err, ErrProgressNotFound) {
		t.Errorf("Find() error = %v, want wrapped %v", err, ErrProgressNotFound)
	}

	if _, err := store.Create(context.Background(), NewUserProgress("user-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(context.Background(), NewUserProgress("user-1")); !errors.Is(err, ErrProgressExists) {
		t.Errorf("second Create() error = %v, want wrapped %v", err, ErrProgressExists)
	}

	found, err := store.Find(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found.LivesCurrent != DefaultLives {
		t.Errorf("LivesCurrent = %d, want %d", found.LivesCurrent, DefaultLives)
	}

	// the returned row is a copy; mutating it must not touch the store
	found.ExperiencePoints = 999
	again, _ := store.Find(context.Background(), "user-1")
	if again.ExperiencePoints != 0 {
		t.Errorf("store row mutated through returned copy: %d", again.ExperiencePoints)
	}
}

func TestMemoryProgressStore_Update(t *testing.T) {
	store := NewMemoryProgressStore()

	if _, err := store.Update(context.Background(), "user-1", ProgressUpdate{}); !errors.Is(err, ErrProgressNotFound) {
		t.Errorf("Update() error = %v, want wrapped %v", err, ErrProgressNotFound)
	}

	seed := NewUserProgress("user-1")
	seed.LastActivityDate = time.Now().Add(-time.Hour)
	if _, err := store.Create(context.Background(), seed); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	xp := 42
	updated, err := store.Update(context.Background(), "user-1", ProgressUpdate{ExperiencePoints: &xp})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.ExperiencePoints != 42 {
		t.Errorf("ExperiencePoints = %d, want 42", updated.ExperiencePoints)
	}
	// untouched fields keep their values
	if updated.LivesCurrent != DefaultLives {
		t.Errorf("LivesCurrent = %d, want %d", updated.LivesCurrent, DefaultLives)
	}
	// every update refreshes the activity date
	if time.Since(updated.LastActivityDate) > time.Minute {
		t.Errorf("LastActivityDate not refreshed: %v", updated.LastActivityDate)
	}
}

func TestMemoryCompletionStore(t *testing.T) {
	store := NewMemoryCompletionStore()

	if _, err := store.Find(context.Background(), "user-1", "lesson-1"); !errors.Is(err, ErrCompletionNotFound) {
		t.Errorf("Find() error = %v, want wrapped %v", err, ErrCompletionNotFound)
	}

	created, err := store.Create(context.Background(), &LessonCompletion{
		UserID:      "user-1",
		LessonID:    "lesson-1",
		Score:       scorePtr(88),
		CompletedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("expected Create to assign an id")
	}

	_, err = store.Create(context.Background(), &LessonCompletion{UserID: "user-1", LessonID: "lesson-1"})
	if !errors.Is(err, ErrCompletionExists) {
		t.Errorf("duplicate Create() error = %v, want wrapped %v", err, ErrCompletionExists)
	}

	// the same lesson for another user is a distinct pair
	if _, err := store.Create(context.Background(), &LessonCompletion{UserID: "user-2", LessonID: "lesson-1"}); err != nil {
		t.Errorf("Create() for second user error = %v", err)
	}

	found, err := store.Find(context.Background(), "user-1", "lesson-1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found.Score == nil || *found.Score != 88 {
		t.Errorf("Score = %v, want 88", found.Score)
	}
}
