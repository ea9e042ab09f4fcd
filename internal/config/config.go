package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration for polydup. Clone detection owns
// the bulk of the knobs; Output holds the handful of settings that apply
// across every report the tool writes regardless of command.
type Config struct {
	Clone  CloneConfig  `mapstructure:"clone" yaml:"clone" json:"clone" toml:"clone"`
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output" toml:"output"`
}

// OutputConfig holds settings shared by every report-writing command.
type OutputConfig struct {
	// Directory is where generated report files (HTML, JSON, ...) are written
	// when a command doesn't receive an explicit --output path.
	Directory string `mapstructure:"directory" yaml:"directory" json:"directory" toml:"directory"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Clone:  *DefaultCloneConfig(),
		Output: OutputConfig{Directory: ""},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.Clone.Validate(); err != nil {
		return fmt.Errorf("clone config invalid: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from a TOML file. An empty path searches
// the current directory (and its parents) for a recognized config file
// name; if none is found, the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWithTarget(path, "")
}

// LoadConfigWithTarget loads configuration the same way LoadConfig does,
// but resolves a missing configPath relative to targetPath instead of cwd.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	loader := NewTomlConfigLoader()

	resolved, err := loader.ResolveConfigPath(configPath, targetPath)
	if err != nil {
		return nil, err
	}

	if resolved == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}

	cfg, err := loader.LoadConfigFile(resolved)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
