package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// TomlConfigLoader loads Config from a TOML file.
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader.
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// configFileNames lists the recognized config file names, in search priority order.
var configFileNames = []string{".polydup.toml", "polydup.toml"}

// LoadConfigFile reads and parses a TOML config file, merging it onto the
// built-in defaults. Keys absent from the file keep their default value;
// go-toml only overwrites fields present in the document.
func (l *TomlConfigLoader) LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveConfigPath resolves the effective configuration file path once.
//   - If configPath is provided, it must exist; a file is used directly and
//     a directory is searched.
//   - If configPath is empty, targetPath (or cwd) is searched.
//
// An empty return with a nil error means "no config file found, use defaults".
func (l *TomlConfigLoader) ResolveConfigPath(configPath string, targetPath string) (string, error) {
	if configPath != "" {
		info, err := os.Stat(configPath)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", configPath)
		}
		if !info.IsDir() {
			return configPath, nil
		}
		return l.FindConfigFileFromPath(configPath), nil
	}

	searchPath := targetPath
	if searchPath == "" {
		searchPath = "."
	}
	return l.FindConfigFileFromPath(searchPath), nil
}

// FindConfigFileFromPath walks up from startPath looking for a recognized
// config file name, returning "" if none is found.
func (l *TomlConfigLoader) FindConfigFileFromPath(startPath string) string {
	dir, err := normalizeSearchDir(startPath)
	if err != nil {
		return ""
	}

	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// GetSupportedConfigFiles returns the list of recognized config file names,
// in order of precedence.
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	out := make([]string, len(configFileNames))
	copy(out, configFileNames)
	return out
}

func normalizeSearchDir(path string) (string, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		return filepath.Dir(absPath), nil
	}

	return absPath, nil
}
