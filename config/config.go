package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/vyperlang/go-vyper/compiler"
)

// ProjectConfig describes the configuration for a go-vyper project.
type ProjectConfig struct {
	// Compilation describes the configuration used to compile the project's contracts.
	Compilation CompilationConfig `json:"compilation"`

	// Cache describes the configuration used for the persistent artifact cache.
	Cache CacheConfig `json:"cache"`

	// Logging describes the configuration used for logging.
	Logging LoggingConfig `json:"logging"`
}

// CompilationConfig describes the configuration options used to compile contracts.
type CompilationConfig struct {
	// Targets are the paths of the Vyper contract source files to compile.
	Targets []string `json:"targets"`

	// ABIPaths are the paths the contracts' ABIs will be written to, index-aligned with Targets. If empty, each
	// ABI path is derived from its target.
	ABIPaths []string `json:"abiPaths,omitempty"`

	// EVMVersion, when non-empty, is the EVM target every contract is compiled for.
	EVMVersion string `json:"evmVersion,omitempty"`

	// Blueprint indicates whether contracts are compiled to ERC-5202 blueprint bytecode instead of plain
	// creation bytecode.
	Blueprint bool `json:"blueprint"`

	// Venv describes the virtual environment used to resolve the compiler.
	Venv VenvConfig `json:"venv"`
}

// VenvConfig describes the virtual environment holding the compiler installation.
type VenvConfig struct {
	// Enabled describes whether the compiler is resolved from an isolated virtual environment. If false, the
	// compiler is resolved from the system PATH.
	Enabled bool `json:"enabled"`

	// Path is the root directory of the virtual environment.
	Path string `json:"path"`

	// Version, when non-empty, pins the exact compiler version to install.
	Version string `json:"version,omitempty"`
}

// CacheConfig describes the configuration options used for the persistent artifact cache.
type CacheConfig struct {
	// Enabled describes whether compiled bytecode is cached across runs.
	Enabled bool `json:"enabled"`

	// Directory is the folder holding the cache database.
	Directory string `json:"directory"`
}

// LoggingConfig describes the configuration options used for logging.
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or
	// discarded. Increasing level values represent more severe logs.
	Level zerolog.Level `json:"level"`

	// LogDirectory describes the directory where structured log files will be output. If the string is empty,
	// then no log files are kept.
	LogDirectory string `json:"logDirectory"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Returns the
// ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration, starting from defaults so omitted keys keep their default values.
	projectConfig, err := GetDefaultProjectConfig()
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, projectConfig); err != nil {
		return nil, errors.WithStack(err)
	}

	// Validate the project configuration
	if err = projectConfig.Validate(); err != nil {
		return nil, err
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format. Returns an error if
// one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements. Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// ABI paths, when provided, must align one-to-one with targets.
	if len(p.Compilation.ABIPaths) != 0 && len(p.Compilation.ABIPaths) != len(p.Compilation.Targets) {
		return compiler.ErrMismatchedLengths
	}

	// An EVM version, when provided, must name a supported target.
	if p.Compilation.EVMVersion != "" {
		if _, err := compiler.ParseEvmVersion(p.Compilation.EVMVersion); err != nil {
			return err
		}
	}

	// A cache cannot be enabled without a directory to live in.
	if p.Cache.Enabled && p.Cache.Directory == "" {
		return fmt.Errorf("cache is enabled but no cache directory is configured")
	}

	return nil
}
