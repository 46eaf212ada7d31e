package utils

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

// TestDefaultConfig tests the DefaultConfig function
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if config.MaxInstructions <= 0 {
		t.Error("MaxInstructions should be positive")
	}

	if config.Parallelism <= 0 {
		t.Error("Parallelism should be positive")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid: %v", err)
	}
}

// TestConfigValidate tests the Validate method
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name:      "valid default config",
			config:    DefaultConfig(),
			expectErr: false,
		},
		{
			name:      "zero max instructions",
			config:    DefaultConfig().WithMaxInstructions(0),
			expectErr: true,
		},
		{
			name:      "negative parallelism",
			config:    DefaultConfig().WithParallelism(-1),
			expectErr: true,
		},
		{
			name:      "unknown log level",
			config:    DefaultConfig().WithLogLevel("verbose"),
			expectErr: true,
		},
		{
			name:      "empty store path",
			config:    DefaultConfig().WithStorePath(""),
			expectErr: true,
		},
		{
			name:      "zero poseidon cache",
			config:    DefaultConfig().WithPoseidonCacheSize(0),
			expectErr: true,
		},
		{
			name:      "file store and debug logging",
			config:    DefaultConfig().WithStorePath("programs.db").WithLogLevel("debug"),
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

// TestConfigLevel tests log level parsing
func TestConfigLevel(t *testing.T) {
	level, err := DefaultConfig().WithLogLevel("debug").Level()
	if err != nil {
		t.Fatalf("Level() error = %v", err)
	}
	if level != zapcore.DebugLevel {
		t.Errorf("Level() = %v, want %v", level, zapcore.DebugLevel)
	}
}

// TestConfigClone tests that Clone returns an independent copy
func TestConfigClone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()
	clone.WithParallelism(original.Parallelism + 1).WithStorePath("other.db")

	if original.Parallelism == clone.Parallelism {
		t.Error("Clone() shares Parallelism with the original")
	}
	if original.StorePath == clone.StorePath {
		t.Error("Clone() shares StorePath with the original")
	}
}
