package mcp

import (
	"github.com/polydup/polydup/app"
	"github.com/polydup/polydup/domain"
	"github.com/polydup/polydup/internal/config"
	"github.com/polydup/polydup/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildCloneUseCase assembles a fresh CloneUseCase with injected dependencies.
func (d *Dependencies) BuildCloneUseCase() (*app.CloneUseCase, error) {
	cloneService := service.NewCloneService()
	formatter := service.NewCloneOutputFormatter()
	configLoader := service.NewCloneConfigurationLoaderWithFlags(nil)

	return app.NewCloneUseCaseBuilder().
		WithService(cloneService).
		WithFileReader(d.fileReader).
		WithFormatter(formatter).
		WithConfigLoader(configLoader).
		Build()
}
