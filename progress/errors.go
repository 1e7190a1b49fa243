package progress

import "fmt"

// Predefined errors
var (
	// ErrLessonNotFound is returned when a lesson id resolves to nothing
	ErrLessonNotFound = fmt.Errorf("progress: lesson not found")
	// ErrProgressNotFound is returned when a user has no progress row
	ErrProgressNotFound = fmt.Errorf("progress: user progress not found")
	// ErrProgressExists is returned when creating a progress row for a user
	// who already has one
	ErrProgressExists = fmt.Errorf("progress: user progress already exists")
	// ErrCompletionNotFound is returned when a (user, lesson) pair has no
	// completion record
	ErrCompletionNotFound = fmt.Errorf("progress: completion not found")
	// ErrCompletionExists is returned when a (user, lesson) pair already has
	// a completion record
	ErrCompletionExists = fmt.Errorf("progress: completion already exists")
)

// Error constructors

// ErrNilDependency returns an error for a missing constructor dependency
func ErrNilDependency(name string) error {
	return fmt.Errorf("progress: nil dependency: %s", name)
}

// ErrLessonNotFoundFor tags ErrLessonNotFound with the lesson id
func ErrLessonNotFoundFor(lessonID string) error {
	return fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
}

// ErrProgressNotFoundFor tags ErrProgressNotFound with the user id
func ErrProgressNotFoundFor(userID string) error {
	return fmt.Errorf("%w: user %s", ErrProgressNotFound, userID)
}

// ErrProgressExistsFor tags ErrProgressExists with the user id
func ErrProgressExistsFor(userID string) error {
	return fmt.Errorf("%w: user %s", ErrProgressExists, userID)
}

// ErrCompletionNotFoundFor tags ErrCompletionNotFound with the pair
func ErrCompletionNotFoundFor(userID, lessonID string) error {
	return fmt.Errorf("%w: user %s lesson %s", ErrCompletionNotFound, userID, lessonID)
}

// ErrCompletionExistsFor tags ErrCompletionExists with the pair
func ErrCompletionExistsFor(userID, lessonID string) error {
	return fmt.Errorf("%w: user %s lesson %s", ErrCompletionExists, userID, lessonID)
}
