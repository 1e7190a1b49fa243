package db

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrConnectionNotEstablished is returned when the connection has
	// been closed or was never opened.
	ErrConnectionNotEstablished = errors.New("db: connection not established")
)

// Error constructors
func ErrInvalidHost() error {
	return fmt.Errorf("db: invalid host (must be non-empty)")
}

func ErrInvalidPort(port int) error {
	return fmt.Errorf("db: invalid port %d (must be between 1 and 65535)", port)
}

func ErrInvalidUser() error {
	return fmt.Errorf("db: invalid user (must be non-empty)")
}

func ErrInvalidPassword() error {
	return fmt.Errorf("db: invalid password (must be non-empty)")
}

func ErrInvalidDatabase() error {
	return fmt.Errorf("db: invalid database (must be non-empty)")
}

func ErrInvalidLogLevel(level string) error {
	return fmt.Errorf("db: invalid log level %q (must be one of silent, error, warn, info)", level)
}

func ErrConnection(err error) error {
	return fmt.Errorf("db: failed to connect: %w", err)
}

func ErrPing(err error) error {
	return fmt.Errorf("db: ping failed: %w", err)
}
