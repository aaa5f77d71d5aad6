package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyperlang/go-vyper/compiler"
)

func TestProjectConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	original, err := GetDefaultProjectConfig()
	require.NoError(t, err)
	original.Compilation.Targets = []string{"contracts/Token.vy"}
	original.Compilation.EVMVersion = "cancun"
	original.Compilation.Venv.Version = "0.4.0"
	original.Logging.Level = zerolog.DebugLevel

	path := filepath.Join(t.TempDir(), "govyper.json")
	require.NoError(t, original.WriteToFile(path))

	loaded, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestReadProjectConfigFromFile_OmittedKeysKeepDefaults(t *testing.T) {
	t.Parallel()

	// A partial file only overrides the keys it names.
	path := filepath.Join(t.TempDir(), "govyper.json")
	partial := `{"compilation": {"targets": ["Token.vy"]}}`
	require.NoError(t, os.WriteFile(path, []byte(partial), 0644))

	loaded, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)

	defaults, err := GetDefaultProjectConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"Token.vy"}, loaded.Compilation.Targets)
	assert.Equal(t, defaults.Compilation.Venv, loaded.Compilation.Venv)
	assert.Equal(t, defaults.Cache, loaded.Cache)
}

func TestReadProjectConfigFromFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadProjectConfigFromFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestReadProjectConfigFromFile_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "govyper.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}

func TestValidate_MismatchedABIPaths(t *testing.T) {
	t.Parallel()

	projectConfig, err := GetDefaultProjectConfig()
	require.NoError(t, err)
	projectConfig.Compilation.Targets = []string{"a.vy", "b.vy"}
	projectConfig.Compilation.ABIPaths = []string{"a.json"}

	assert.ErrorIs(t, projectConfig.Validate(), compiler.ErrMismatchedLengths)
}

func TestValidate_UnsupportedEVMVersion(t *testing.T) {
	t.Parallel()

	projectConfig, err := GetDefaultProjectConfig()
	require.NoError(t, err)
	projectConfig.Compilation.EVMVersion = "homestead"

	err = projectConfig.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported EVM version")
}

func TestValidate_CacheWithoutDirectory(t *testing.T) {
	t.Parallel()

	projectConfig, err := GetDefaultProjectConfig()
	require.NoError(t, err)
	projectConfig.Cache.Enabled = true
	projectConfig.Cache.Directory = ""

	assert.Error(t, projectConfig.Validate())
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	projectConfig, err := GetDefaultProjectConfig()
	require.NoError(t, err)
	assert.NoError(t, projectConfig.Validate())
}
