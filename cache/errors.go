package cache

import (
	"fmt"
	"time"
)

// Predefined errors
var (
	// ErrNilLoader is returned by GetOrLoad when no loader is provided
	ErrNilLoader = fmt.Errorf("cache: nil loader")
)

// Error constructors

// ErrInvalidName returns an error for invalid name
func ErrInvalidName(name string) error {
	return fmt.Errorf("cache: invalid name: %s (must be non-empty)", name)
}

// ErrInvalidMaxSize returns an error for invalid max size
func ErrInvalidMaxSize(size int) error {
	return fmt.Errorf("cache: invalid max size: %d (must be >= 1)", size)
}

// ErrInvalidDefaultTTL returns an error for invalid default TTL
func ErrInvalidDefaultTTL(ttl time.Duration) error {
	return fmt.Errorf("cache: invalid default ttl: %v (must be > 0)", ttl)
}

// ErrInvalidCleanupInterval returns an error for invalid cleanup interval
func ErrInvalidCleanupInterval(interval time.Duration) error {
	return fmt.Errorf("cache: invalid cleanup interval: %v (must be > 0)", interval)
}

// ErrInvalidPolicy returns an error for an invalid namespace policy
func ErrInvalidPolicy(p NamespacePolicy) error {
	return fmt.Errorf("cache: invalid namespace policy: prefix=%q ttl=%v (prefix must be non-empty, ttl > 0)", p.Prefix, p.TTL)
}

// ErrInvalidPattern wraps a regular expression compile error
func ErrInvalidPattern(pattern string, err error) error {
	return fmt.Errorf("cache: invalid pattern %q: %w", pattern, err)
}

// ErrLoad wraps a failed loader call
func ErrLoad(key string, err error) error {
	return fmt.Errorf("cache: load %q: %w", key, err)
}
