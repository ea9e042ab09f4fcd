package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/polydup/polydup/internal/constants"
)

// defaultConfigTmpl contains the embedded default configuration template.
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds the values used to render the default config
// template. Thresholds are sourced from internal/constants so the generated
// file always documents the same numbers the analyzer actually uses.
type DefaultConfigValues struct {
	Type1Threshold      float64
	Type2Threshold      float64
	Type3Threshold      float64
	Type4Threshold      float64
	SimilarityThreshold float64
	GroupingThreshold   float64

	CloneMinLines       int
	CloneMinNodes       int
	CloneMaxEditDistance float64

	MaxMemoryMB    int
	BatchSize      int
	MaxGoroutines  int
	TimeoutSeconds int
}

func newDefaultConfigValues() DefaultConfigValues {
	defaults := DefaultCloneConfig()
	return DefaultConfigValues{
		Type1Threshold:      constants.DefaultType1CloneThreshold,
		Type2Threshold:      constants.DefaultType2CloneThreshold,
		Type3Threshold:      constants.DefaultType3CloneThreshold,
		Type4Threshold:      constants.DefaultType4CloneThreshold,
		SimilarityThreshold: defaults.Thresholds.SimilarityThreshold,
		GroupingThreshold:   defaults.Grouping.Threshold,

		CloneMinLines:        defaults.Analysis.MinLines,
		CloneMinNodes:        defaults.Analysis.MinNodes,
		CloneMaxEditDistance: defaults.Analysis.MaxEditDistance,

		MaxMemoryMB:    defaults.Performance.MaxMemoryMB,
		BatchSize:      defaults.Performance.BatchSize,
		MaxGoroutines:  defaults.Performance.MaxGoroutines,
		TimeoutSeconds: defaults.Performance.TimeoutSeconds,
	}
}

// GenerateDefaultConfigTOML renders the default config template and returns
// the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}
