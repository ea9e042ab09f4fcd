package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/polydup/polydup/domain"
	"github.com/polydup/polydup/internal/config"
	"github.com/polydup/polydup/internal/constants"
)

// CloneConfigurationLoader implements the domain.CloneConfigurationLoader interface
type CloneConfigurationLoader struct{}

// NewCloneConfigurationLoader creates a new clone configuration loader
func NewCloneConfigurationLoader() *CloneConfigurationLoader {
	return &CloneConfigurationLoader{}
}

// LoadCloneConfig loads clone detection configuration from file
func (c *CloneConfigurationLoader) LoadCloneConfig(configPath string) (*domain.CloneRequest, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg.Clone.ToCloneRequest(nil), nil
}

// SaveCloneConfig saves clone detection configuration to file
func (c *CloneConfigurationLoader) SaveCloneConfig(cloneConfig *domain.CloneRequest, configPath string) error {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		loadedCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		cfg = loadedCfg
	} else {
		cfg = config.DefaultConfig()
	}

	cfg.Clone = *config.FromCloneRequest(cloneConfig)

	return config.SaveConfig(cfg, configPath)
}

// GetDefaultCloneConfig returns default clone detection configuration, first checking for a config file
func (c *CloneConfigurationLoader) GetDefaultCloneConfig() *domain.CloneRequest {
	configFile := c.FindDefaultConfigFile()
	if configFile != "" {
		if configReq, err := c.LoadCloneConfig(configFile); err == nil {
			return configReq
		}
	}

	return config.DefaultConfig().Clone.ToCloneRequest(nil)
}

// LoadCloneConfigFromViper loads clone configuration using viper (for advanced config scenarios)
func (c *CloneConfigurationLoader) LoadCloneConfigFromViper(configPath string) (*domain.CloneRequest, error) {
	viper.SetConfigFile(configPath)

	c.setViperDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cloneCfg config.CloneConfig
	if err := viper.UnmarshalKey("clone", &cloneCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal clone config: %w", err)
	}

	return cloneCfg.ToCloneRequest(nil), nil
}

// setViperDefaults sets default values in viper
func (c *CloneConfigurationLoader) setViperDefaults() {
	viper.SetDefault("clone.analysis.min_lines", domain.DefaultCloneMinLines)
	viper.SetDefault("clone.analysis.min_nodes", domain.DefaultCloneMinNodes)
	viper.SetDefault("clone.thresholds.type1_threshold", constants.DefaultType1CloneThreshold)
	viper.SetDefault("clone.thresholds.type2_threshold", constants.DefaultType2CloneThreshold)
	viper.SetDefault("clone.thresholds.type3_threshold", constants.DefaultType3CloneThreshold)
	viper.SetDefault("clone.thresholds.type4_threshold", constants.DefaultType4CloneThreshold)
	viper.SetDefault("clone.thresholds.similarity_threshold", domain.DefaultCloneSimilarityThreshold)
	viper.SetDefault("clone.analysis.max_edit_distance", domain.DefaultCloneMaxEditDistance)
	viper.SetDefault("clone.analysis.cost_model_type", "default")
	viper.SetDefault("clone.analysis.ignore_literals", false)
	viper.SetDefault("clone.analysis.ignore_identifiers", false)
	viper.SetDefault("clone.output.show_content", false)
	viper.SetDefault("clone.output.group_clones", true)
	viper.SetDefault("clone.output.sort_by", "similarity")
	viper.SetDefault("clone.filtering.min_similarity", 0.0)
	viper.SetDefault("clone.filtering.max_similarity", 1.0)
	viper.SetDefault("clone.filtering.enabled_clone_types", []string{"type1", "type2", "type3", "type4"})
}

// SaveCloneConfigAsYAML saves clone configuration as a standalone YAML file
func (c *CloneConfigurationLoader) SaveCloneConfigAsYAML(cloneConfig *domain.CloneRequest, filePath string) error {
	cloneCfg := config.FromCloneRequest(cloneConfig)

	yamlConfig := map[string]interface{}{
		"clone": cloneCfg,
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()
	encoder.SetIndent(2)

	if err := encoder.Encode(yamlConfig); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// FindDefaultConfigFile looks for a polydup config file in the current directory
func (c *CloneConfigurationLoader) FindDefaultConfigFile() string {
	configFiles := []string{".polydup.toml", "polydup.toml"}

	for _, filename := range configFiles {
		if _, err := os.Stat(filename); err == nil {
			return filename
		}
	}

	return ""
}
