package utils

import (
	"fmt"
	"runtime"

	"go.uber.org/zap/zapcore"
)

// Config represents the configuration for program execution and storage
type Config struct {
	// Execution limits
	MaxInstructions int // Longest program accepted by the decoder and executor
	Parallelism     int // Concurrent runs in a batch

	// Logging
	LogLevel string // "debug", "info", "warn" or "error"

	// Storage
	StorePath string // SQLite database path, ":memory:" for an in-process store

	// Hashing
	PoseidonCacheSize int // Poseidon instances kept, one per sponge rate
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxInstructions:   1 << 16,
		Parallelism:       runtime.GOMAXPROCS(0),
		LogLevel:          "info",
		StorePath:         ":memory:",
		PoseidonCacheSize: 8,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxInstructions <= 0 {
		return fmt.Errorf("max instructions must be positive")
	}

	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.StorePath == "" {
		return fmt.Errorf("store path must not be empty")
	}

	if c.PoseidonCacheSize <= 0 {
		return fmt.Errorf("poseidon cache size must be positive")
	}

	return nil
}

// Level parses LogLevel
func (c *Config) Level() (zapcore.Level, error) {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return zapcore.ParseLevel(c.LogLevel)
	}
	return zapcore.InfoLevel, fmt.Errorf("log level must be 'debug', 'info', 'warn', or 'error', got '%s'", c.LogLevel)
}

// WithMaxInstructions sets the program length limit
func (c *Config) WithMaxInstructions(n int) *Config {
	c.MaxInstructions = n
	return c
}

// WithParallelism sets the number of concurrent runs in a batch
func (c *Config) WithParallelism(n int) *Config {
	c.Parallelism = n
	return c
}

// WithLogLevel sets the log level
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

// WithStorePath sets the program store location
func (c *Config) WithStorePath(path string) *Config {
	c.StorePath = path
	return c
}

// WithPoseidonCacheSize sets the Poseidon cache size
func (c *Config) WithPoseidonCacheSize(n int) *Config {
	c.PoseidonCacheSize = n
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
