package analytics

import "fmt"

// Predefined errors
var (
	// ErrBufferFull is returned when the write buffer rejects a fact
	ErrBufferFull = fmt.Errorf("analytics: buffer is full")

	// ErrWriterClosed is returned when writing to a closed writer
	ErrWriterClosed = fmt.Errorf("analytics: writer is closed")
)

// Error constructors
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("analytics: invalid config: %s", msg)
}

func ErrConnection(err error) error {
	return fmt.Errorf("analytics: connection failed: %w", err)
}

func ErrInsert(err error) error {
	return fmt.Errorf("analytics: insert into %s failed: %w", FactTable, err)
}
