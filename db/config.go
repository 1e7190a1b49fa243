package db

import (
	"fmt"
	"time"
)

// Config holds database connection settings.
type Config struct {
	// Host is the database server host.
	Host string `mapstructure:"host" json:"host"`

	// Port is the database server port.
	// default: 3306
	Port int `mapstructure:"port" json:"port"`

	// User is the database user.
	User string `mapstructure:"user" json:"user"`

	// Password is the database password.
	Password string `mapstructure:"password" json:"password"`

	// Database is the schema name to connect to.
	Database string `mapstructure:"database" json:"database"`

	// Charset is the connection character set.
	// default: utf8mb4
	Charset string `mapstructure:"charset" json:"charset"`

	// Loc sets the time zone used for time.Time values.
	// default: Local
	Loc string `mapstructure:"loc" json:"loc"`

	// MaxOpenConns caps the number of open connections to the database.
	// default: 25
	MaxOpenConns int `mapstructure:"max_open_conns" json:"max_open_conns"`

	// MaxIdleConns caps the number of idle connections in the pool.
	// default: 10
	MaxIdleConns int `mapstructure:"max_idle_conns" json:"max_idle_conns"`

	// ConnMaxLifetimeSeconds is the maximum lifetime of a connection.
	// default: 1800
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds" json:"conn_max_lifetime_seconds"`

	// ConnMaxIdleTimeSeconds is the maximum idle time of a connection.
	// default: 600
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds" json:"conn_max_idle_time_seconds"`

	// LogLevel controls GORM statement logging. One of
	// "silent", "error", "warn" or "info".
	// default: warn
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	// SlowThresholdMs is the duration in milliseconds above which a
	// query is logged as slow.
	// default: 1000
	SlowThresholdMs int `mapstructure:"slow_threshold_ms" json:"slow_threshold_ms"`
}

// DefaultConfig returns a Config populated with defaults. Connection
// coordinates (host, user, password, database) have no defaults and
// must be supplied by the caller.
func DefaultConfig() *Config {
	return &Config{
		Port:                   3306,
		Charset:                "utf8mb4",
		Loc:                    "Local",
		MaxOpenConns:           25,
		MaxIdleConns:           10,
		ConnMaxLifetimeSeconds: 1800,
		ConnMaxIdleTimeSeconds: 600,
		LogLevel:               "warn",
		SlowThresholdMs:        1000,
	}
}

// MergeDefaults fills zero-valued fields from DefaultConfig and
// returns the merged result.
func (c *Config) MergeDefaults() *Config {
	merged := *c
	defaults := DefaultConfig()

	if merged.Port == 0 {
		merged.Port = defaults.Port
	}
	if merged.Charset == "" {
		merged.Charset = defaults.Charset
	}
	if merged.Loc == "" {
		merged.Loc = defaults.Loc
	}
	if merged.MaxOpenConns == 0 {
		merged.MaxOpenConns = defaults.MaxOpenConns
	}
	if merged.MaxIdleConns == 0 {
		merged.MaxIdleConns = defaults.MaxIdleConns
	}
	if merged.ConnMaxLifetimeSeconds == 0 {
		merged.ConnMaxLifetimeSeconds = defaults.ConnMaxLifetimeSeconds
	}
	if merged.ConnMaxIdleTimeSeconds == 0 {
		merged.ConnMaxIdleTimeSeconds = defaults.ConnMaxIdleTimeSeconds
	}
	if merged.LogLevel == "" {
		merged.LogLevel = defaults.LogLevel
	}
	if merged.SlowThresholdMs == 0 {
		merged.SlowThresholdMs = defaults.SlowThresholdMs
	}

	return &merged
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Host == "" {
		return ErrInvalidHost()
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort(c.Port)
	}
	if c.User == "" {
		return ErrInvalidUser()
	}
	if c.Password == "" {
		return ErrInvalidPassword()
	}
	if c.Database == "" {
		return ErrInvalidDatabase()
	}
	switch c.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return ErrInvalidLogLevel(c.LogLevel)
	}
	return nil
}

// DSN builds the MySQL data source name for this configuration.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Charset, c.Loc)
}

// SlowThreshold returns the slow query threshold as a duration.
func (c *Config) SlowThreshold() time.Duration {
	return time.Duration(c.SlowThresholdMs) * time.Millisecond
}
