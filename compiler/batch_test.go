package compiler

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatch_DerivesABIPaths(t *testing.T) {
	t.Parallel()

	batch := NewBatch([]string{"contracts/Token.vy", "contracts/Vault.vy"})
	assert.Equal(t, []string{"contracts/Token.json", "contracts/Vault.json"}, batch.ABIPaths)
	assert.Equal(t, 2, batch.Len())
	assert.Nil(t, batch.Bytecodes, "bytecodes should not exist before a successful compile")
}

func TestNewBatchWithABIPaths(t *testing.T) {
	t.Parallel()

	batch, err := NewBatchWithABIPaths([]string{"a.vy", "b.vy"}, []string{"x.json", "y.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.json", "y.json"}, batch.ABIPaths)
}

func TestNewBatchWithABIPaths_MismatchedLengths(t *testing.T) {
	t.Parallel()

	// The count mismatch is a hard precondition, detected before any work begins.
	_, err := NewBatchWithABIPaths([]string{"a.vy", "b.vy"}, []string{"x.json"})
	assert.ErrorIs(t, err, ErrMismatchedLengths)

	_, err = NewBatchWithABIPaths([]string{"a.vy"}, []string{})
	assert.ErrorIs(t, err, ErrMismatchedLengths)
}

func TestBatchFromDirectory(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	for _, name := range []string{"Token.vy", "Vault.vy", "README.md", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(directory, name), []byte("# contract"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(directory, "nested.vy"), 0755))

	batch, err := BatchFromDirectory(directory)
	require.NoError(t, err)

	// Only .vy files are picked up; directories are ignored even with a matching name.
	assert.ElementsMatch(t, []string{
		filepath.Join(directory, "Token.vy"),
		filepath.Join(directory, "Vault.vy"),
	}, batch.SourcePaths)
}

func TestBatchFromDirectory_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := BatchFromDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestBatchFromWorkspace(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "contracts"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Root.vy"), []byte("# contract"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "contracts", "Token.vy"), []byte("# contract"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "Vault.vy"), []byte("# contract"), 0644))

	batch, err := BatchFromWorkspace(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "Root.vy"),
		filepath.Join(root, "contracts", "Token.vy"),
		filepath.Join(root, "src", "Vault.vy"),
	}, batch.SourcePaths)
}

func TestBatchFromWorkspace_MissingConventionalDirectories(t *testing.T) {
	t.Parallel()

	// A workspace with no conventional source directories yields an empty batch, not an error.
	batch, err := BatchFromWorkspace(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Len())
}

func TestFanOut_IndexAlignment(t *testing.T) {
	t.Parallel()

	// Each task sleeps a random amount so completion order differs from index order; results must still land
	// in their own slots.
	const n = 32
	results := make([]string, n)
	err := fanOut(n, func(i int) error {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		results[i] = fmt.Sprintf("result-%d", i)
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("result-%d", i), results[i])
	}
}

func TestFanOut_LowestIndexErrorWins(t *testing.T) {
	t.Parallel()

	errThree := errors.New("task 3 failed")
	errSeven := errors.New("task 7 failed")

	err := fanOut(10, func(i int) error {
		switch i {
		case 3:
			return errThree
		case 7:
			// The higher-index failure finishes first but must not win.
			return errSeven
		}
		return nil
	})
	assert.ErrorIs(t, err, errThree)
}

func TestFanOut_SiblingsRunToCompletion(t *testing.T) {
	t.Parallel()

	// A failure must not prevent sibling tasks from finishing.
	completed := make([]bool, 8)
	err := fanOut(8, func(i int) error {
		if i == 0 {
			return errors.New("first task failed")
		}
		time.Sleep(5 * time.Millisecond)
		completed[i] = true
		return nil
	})
	require.Error(t, err)

	for i := 1; i < 8; i++ {
		assert.True(t, completed[i], "task %d should have run to completion", i)
	}
}

func TestCompileAll_FailurePublishesNothing(t *testing.T) {
	t.Parallel()

	// Resolving inside a non-existent virtual environment guarantees every unit fails to spawn.
	batch := NewBatch([]string{"a.vy", "b.vy"})
	batch.SetVenv(filepath.Join(t.TempDir(), "does-not-exist"))

	err := batch.CompileAll()
	require.Error(t, err)

	var compilerError *CompilerError
	assert.True(t, errors.As(err, &compilerError))
	assert.Nil(t, batch.Bytecodes, "a failed batch must not publish partial results")
}

func TestCompileAllForVersion_RejectsUnsupportedVersion(t *testing.T) {
	t.Parallel()

	batch := NewBatch([]string{"a.vy"})
	err := batch.CompileAllForVersion(EvmVersion("frontier"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported EVM version")
}

func TestBatch_SetVenv(t *testing.T) {
	t.Parallel()

	batch := NewBatch([]string{"a.vy"})
	batch.SetVenv("./venv")
	assert.Equal(t, "./venv", batch.VenvPath)
}
