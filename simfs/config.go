package simfs

import (
	"time"

	"github.com/madsim-go/simfs/filestate"
)

// Config is the per-node delay/policy knobs a Filesystem operates under.
type Config = filestate.Config

// Option mutates a Config, following the functional-option shape the corpus
// uses for constructor configuration rather than a config-file parser.
type Option func(*Config)

// WithWriteDelay sets the minimum time a write must age before it is
// eligible for flush.
func WithWriteDelay(d time.Duration) Option {
	return func(c *Config) { c.WriteDelay = d }
}

// WithFlushDelay sets the minimum time a flush request must wait once
// issued, even against an already-aged write.
func WithFlushDelay(d time.Duration) Option {
	return func(c *Config) { c.FlushDelay = d }
}

// WithAllowDirtyWrite controls whether a write to an already-Written file
// is applied immediately (true) or suspends until the pending write is
// flushed (false).
func WithAllowDirtyWrite(allow bool) Option {
	return func(c *Config) { c.AllowDirtyWrite = allow }
}

// DefaultConfig returns the zero-delay, dirty-writes-allowed configuration
// every new Filesystem and simulated node starts with.
func DefaultConfig() Config {
	return filestate.DefaultConfig()
}

// NewConfig builds a Config by applying opts over DefaultConfig.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
