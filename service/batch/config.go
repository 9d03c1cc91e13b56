package batch

import "time"

// Config controls one batch execution run.
type Config struct {
	// BatchSize is the maximum number of approved decisions admitted per run.
	BatchSize int `json:"batchSize" yaml:"batchSize"`

	// MaxConcurrency bounds how many decisions execute at the same time.
	MaxConcurrency int `json:"maxConcurrency" yaml:"maxConcurrency"`

	// HandlerTimeout caps a single handler invocation; zero means unbounded.
	HandlerTimeout time.Duration `json:"handlerTimeout" yaml:"handlerTimeout"`
}

// DefaultConfig returns the default batch configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:      10,
		MaxConcurrency: 5,
	}
}

// Validate normalises out-of-range values back to their defaults.
func (c *Config) Validate() {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 5
	}
	if c.HandlerTimeout < 0 {
		c.HandlerTimeout = 0
	}
}
