package events

import "fmt"

// Predefined errors
var (
	// ErrPublisherClosed is returned when publishing after Close
	ErrPublisherClosed = fmt.Errorf("events: publisher is closed")
)

// Error constructors

// ErrInvalidConfig configuration error
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("events: invalid config: %s", msg)
}

// ErrInvalidEvent event validation error
func ErrInvalidEvent(msg string) error {
	return fmt.Errorf("events: invalid event: %s", msg)
}

// ErrEncode event encoding error
func ErrEncode(err error) error {
	return fmt.Errorf("events: encode event failed: %w", err)
}

// ErrConnection Kafka connection error
func ErrConnection(err error) error {
	return fmt.Errorf("events: connection failed: %w", err)
}

// ErrSubscribe subscribe error
func ErrSubscribe(topic string, err error) error {
	return fmt.Errorf("events: subscribe to topic %s failed: %w", topic, err)
}

// ErrConsume consume message error
func ErrConsume(err error) error {
	return fmt.Errorf("events: consume message failed: %w", err)
}

// ErrCommit commit message error
func ErrCommit(err error) error {
	return fmt.Errorf("events: commit offsets failed: %w", err)
}
