// Package config loads the jsconsole command configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output destinations for console text.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	OutputLog    = "log"
)

// Config holds command settings.
type Config struct {
	Indent  int           `yaml:"indent"` // spaces per nesting level in dumps
	Output  string        `yaml:"output"` // stdout, stderr or log
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Indent: 4,
		Output: OutputStdout,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("invalid indent %d", c.Indent)
	}
	switch c.Output {
	case OutputStdout, OutputStderr, OutputLog:
	default:
		return fmt.Errorf("invalid output %q", c.Output)
	}
	return nil
}
