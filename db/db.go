// Package db provides relational database connectivity built on GORM.
// It owns connection pooling, slow query logging and liveness checks
// so that higher layers only deal with *gorm.DB handles.
package db

import (
	"context"

	"gorm.io/gorm"
)

// Database is a managed connection to a relational database.
type Database interface {
	// DB returns the underlying GORM handle.
	DB() (*gorm.DB, error)

	// Ping verifies that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool. The handle must not be
	// used after Close returns.
	Close() error
}
