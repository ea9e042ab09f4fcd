package mcp

import (
	"github.com/polydup/polydup/domain"
	"github.com/polydup/polydup/internal/config"
)

func NewTestDependencies(fr domain.FileReader, cfg *config.Config, path string) *Dependencies {
	return &Dependencies{
		fileReader: fr,
		config:     cfg,
		configPath: path,
	}
}
