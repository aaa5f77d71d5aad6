package config

import (
	"github.com/rs/zerolog"
	"github.com/vyperlang/go-vyper/venv"
)

// GetDefaultProjectConfig obtains a default configuration for a project: no targets, an isolated virtual
// environment at the default path, caching enabled, and info-level logging.
func GetDefaultProjectConfig() (*ProjectConfig, error) {
	projectConfig := &ProjectConfig{
		Compilation: CompilationConfig{
			Targets: []string{},
			Venv: VenvConfig{
				Enabled: true,
				Path:    venv.DefaultPath,
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Directory: ".govyper",
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "",
		},
	}
	return projectConfig, nil
}
