package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactCache_PutAndGet(t *testing.T) {
	t.Parallel()

	artifactCache, err := Open(t.TempDir())
	require.NoError(t, err)
	defer artifactCache.Close()

	key := []byte("some-key")
	require.NoError(t, artifactCache.Put(key, "0x600080"))

	bytecode, found, err := artifactCache.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0x600080", bytecode)
}

func TestArtifactCache_Miss(t *testing.T) {
	t.Parallel()

	artifactCache, err := Open(t.TempDir())
	require.NoError(t, err)
	defer artifactCache.Close()

	_, found, err := artifactCache.Get([]byte("absent"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestArtifactCache_PutReplaces(t *testing.T) {
	t.Parallel()

	artifactCache, err := Open(t.TempDir())
	require.NoError(t, err)
	defer artifactCache.Close()

	key := []byte("some-key")
	require.NoError(t, artifactCache.Put(key, "0x01"))
	require.NoError(t, artifactCache.Put(key, "0x02"))

	bytecode, found, err := artifactCache.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0x02", bytecode)
}

func TestArtifactCache_PersistsAcrossOpens(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	key := []byte("some-key")

	artifactCache, err := Open(directory)
	require.NoError(t, err)
	require.NoError(t, artifactCache.Put(key, "0x600080"))
	require.NoError(t, artifactCache.Close())

	reopened, err := Open(directory)
	require.NoError(t, err)
	defer reopened.Close()

	bytecode, found, err := reopened.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0x600080", bytecode)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	t.Parallel()

	directory := filepath.Join(t.TempDir(), "nested", "cache")
	artifactCache, err := Open(directory)
	require.NoError(t, err)
	defer artifactCache.Close()

	_, err = os.Stat(filepath.Join(directory, artifactCacheFileName))
	assert.NoError(t, err)
}

func TestKey_SensitiveToSourceAndMode(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	sourcePath := filepath.Join(directory, "Token.vy")
	require.NoError(t, os.WriteFile(sourcePath, []byte("# contract v1"), 0644))

	key1, err := Key(sourcePath, "bytecode")
	require.NoError(t, err)

	// A different mode over the same source misses.
	key2, err := Key(sourcePath, "bytecode@cancun")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)

	// Any source edit misses.
	require.NoError(t, os.WriteFile(sourcePath, []byte("# contract v2"), 0644))
	key3, err := Key(sourcePath, "bytecode")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)

	// Unchanged source and mode hit the same key.
	require.NoError(t, os.WriteFile(sourcePath, []byte("# contract v1"), 0644))
	key4, err := Key(sourcePath, "bytecode")
	require.NoError(t, err)
	assert.Equal(t, key1, key4)
}

func TestKey_MissingSource(t *testing.T) {
	t.Parallel()

	_, err := Key(filepath.Join(t.TempDir(), "does-not-exist.vy"), "bytecode")
	assert.Error(t, err)
}
