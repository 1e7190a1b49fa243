package analytics

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Config holds ClickHouse connection and writer settings.
type Config struct {
	// Hosts are the ClickHouse server addresses.
	Hosts []string `mapstructure:"hosts"`

	// Database is the target database.
	// default: default
	Database string `mapstructure:"database"`

	// Username authenticates the connection.
	Username string `mapstructure:"username"`

	// Password authenticates the connection.
	Password string `mapstructure:"password"`

	// DialTimeout bounds connection establishment.
	// default: 10s
	DialTimeout time.Duration `mapstructure:"dial_timeout"`

	// Debug enables driver-level debug output.
	Debug bool `mapstructure:"debug"`

	// Settings are passed through to ClickHouse per-query settings.
	Settings clickhouse.Settings `mapstructure:"settings"`

	// Writer configures batching. Nil selects DefaultWriterConfig.
	Writer *WriterConfig `mapstructure:"writer"`
}

// WriterConfig controls how buffered facts are flushed.
type WriterConfig struct {
	// FlushInterval is how often the time-triggered flush fires.
	// default: 10s
	FlushInterval time.Duration `mapstructure:"flush_interval"`

	// FlushSize flushes immediately once this many facts are buffered.
	// default: 5000
	FlushSize int `mapstructure:"flush_size"`

	// MinFlushSize is the smallest batch a time-triggered flush will
	// write. Smaller buffers keep accumulating until MaxWaitTime
	// forces them out. Zero flushes on every interval.
	// default: 500
	MinFlushSize int `mapstructure:"min_flush_size"`

	// MaxWaitTime bounds how long a small batch may wait before it is
	// flushed regardless of MinFlushSize. Zero waits indefinitely.
	// default: 60s
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// DefaultConfig returns connection defaults. Hosts and credentials
// have no defaults and must be supplied by the caller.
func DefaultConfig() *Config {
	return &Config{
		Database:    "default",
		DialTimeout: 10 * time.Second,
	}
}

// DefaultWriterConfig returns the default batching settings.
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		FlushInterval: 10 * time.Second,
		FlushSize:     5000,
		MinFlushSize:  500,
		MaxWaitTime:   60 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return ErrInvalidConfig("hosts are required")
	}
	if c.Username == "" {
		return ErrInvalidConfig("username is required")
	}
	if c.Password == "" {
		return ErrInvalidConfig("password is required")
	}

	if c.Writer != nil {
		if c.Writer.FlushInterval <= 0 {
			return ErrInvalidConfig("writer.flush_interval must be positive")
		}
		if c.Writer.FlushSize <= 0 {
			return ErrInvalidConfig("writer.flush_size must be positive")
		}
		if c.Writer.MinFlushSize < 0 {
			return ErrInvalidConfig("writer.min_flush_size cannot be negative")
		}
		if c.Writer.MinFlushSize > c.Writer.FlushSize {
			return ErrInvalidConfig("writer.min_flush_size cannot exceed writer.flush_size")
		}
		if c.Writer.MaxWaitTime < 0 {
			return ErrInvalidConfig("writer.max_wait_time cannot be negative")
		}
	}
	return nil
}
