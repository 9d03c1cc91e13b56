package arbiter

import (
	"context"
	"fmt"
	"time"

	"github.com/arbiterhq/arbiter/service/batch"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration.  The
// zero value is useful: all nested fields inherit their package defaults.
type Config struct {
	Batch    batch.Config   `json:"batch" yaml:"batch"`
	Approval ApprovalConfig `json:"approval" yaml:"approval"`
	Audit    AuditConfig    `json:"audit" yaml:"audit"`
}

// ApprovalConfig controls the human sign-off queue.
type ApprovalConfig struct {
	// TTL is the approval window before the expiry sweep rejects a pending
	// decision.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// AuditConfig controls the audit trail destination.
type AuditConfig struct {
	// URL is an afs location for the JSONL audit log.  Empty keeps the
	// in-memory sink.
	URL string `json:"url" yaml:"url"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Batch:    batch.DefaultConfig(),
		Approval: ApprovalConfig{TTL: 24 * time.Hour},
	}
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Batch.BatchSize < 0 {
		return fmt.Errorf("batch.batchSize must be >= 0")
	}
	if c.Batch.MaxConcurrency < 0 {
		return fmt.Errorf("batch.maxConcurrency must be >= 0")
	}
	if c.Approval.TTL < 0 {
		return fmt.Errorf("approval.ttl must be >= 0")
	}
	return nil
}

// LoadConfig reads a YAML config from an afs URL (file path, mem://, s3://)
// layered over the defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
