package cache

import "time"

// Config holds configuration for the in-process cache
type Config struct {
	// Name is used for logging and metrics to identify the cache (required)
	Name string `mapstructure:"name"`
	// MaxSize is the maximum number of entries held at once
	// default: 1000
	MaxSize int `mapstructure:"max_size"`
	// DefaultTTL applies when neither the caller nor a namespace policy
	// provides a TTL
	// default: 5 * time.Minute
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	// CleanupInterval is the interval between janitor sweeps
	// default: 10 * time.Minute
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	// Policies maps key namespaces to TTLs, first match wins
	// default: PlatformPolicies()
	Policies []NamespacePolicy `mapstructure:"policies"`
}

// DefaultConfig returns the default configuration for the cache
// Note: Name field has no default value and must be explicitly set by the user
func DefaultConfig() *Config {
	return &Config{
		// Name is required and must be explicitly set
		MaxSize:         1000,
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: 10 * time.Minute,
		Policies:        PlatformPolicies(),
	}
}

// MergeDefaults fills zero-valued fields from DefaultConfig
func (c *Config) MergeDefaults() {
	d := DefaultConfig()
	if c.MaxSize == 0 {
		c.MaxSize = d.MaxSize
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = d.DefaultTTL
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.Policies == nil {
		c.Policies = d.Policies
	}
}

// Validate validates the configuration
// It checks that all required fields are set and have valid values
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidName(c.Name)
	}
	if c.MaxSize < 1 {
		return ErrInvalidMaxSize(c.MaxSize)
	}
	if c.DefaultTTL <= 0 {
		return ErrInvalidDefaultTTL(c.DefaultTTL)
	}
	if c.CleanupInterval <= 0 {
		return ErrInvalidCleanupInterval(c.CleanupInterval)
	}
	for _, p := range c.Policies {
		if p.Prefix == "" || p.TTL <= 0 {
			return ErrInvalidPolicy(p)
		}
	}
	return nil
}
