// Package store provides MySQL-backed implementations of the progress
// capability interfaces. It maps rows to domain types and database
// errors to the progress sentinels, so the service layer never sees
// GORM or driver types.
package store

import (
	"github.com/lingualoop/go-core/db"
	"github.com/lingualoop/go-core/logger"
	"github.com/lingualoop/go-core/progress"
)

// Stores bundles the persistence adapters backed by one database.
type Stores struct {
	Lessons     progress.LessonLookup
	Progress    progress.ProgressStore
	Completions progress.CompletionStore
}

// New builds the adapters on top of an established database connection.
func New(log logger.Logger, database db.Database) (*Stores, error) {
	if log == nil {
		return nil, ErrNilDependency("logger")
	}
	if database == nil {
		return nil, ErrNilDependency("database")
	}

	gdb, err := database.DB()
	if err != nil {
		return nil, err
	}

	return &Stores{
		Lessons:     &lessonStore{logger: log, db: gdb},
		Progress:    &progressStore{logger: log, db: gdb},
		Completions: &completionStore{logger: log, db: gdb},
	}, nil
}

// Migrate creates or updates the lessons, user_progress and
// lesson_completions tables.
func Migrate(database db.Database) error {
	gdb, err := database.DB()
	if err != nil {
		return err
	}
	if err := gdb.AutoMigrate(
		&lessonRecord{},
		&userProgressRecord{},
		&lessonCompletionRecord{},
	); err != nil {
		return ErrMigrate(err)
	}
	return nil
}
