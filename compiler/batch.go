package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vyperlang/go-vyper/cache"
	"github.com/vyperlang/go-vyper/logging"
	"github.com/vyperlang/go-vyper/utils"
)

// ErrMismatchedLengths indicates a batch was constructed with source and ABI path sequences of differing lengths.
var ErrMismatchedLengths = errors.New("source path and ABI path counts do not match")

// Batch describes a set of Vyper contract compilation units driven concurrently. SourcePaths and ABIPaths are
// index-aligned: index i always denotes the same logical unit across all sequences, including Bytecodes after a
// successful batch compile. That alignment is the type's central contract.
type Batch struct {
	// SourcePaths are the paths to the Vyper contract source files.
	SourcePaths []string

	// ABIPaths are the paths the contracts' JSON ABIs will be written to, index-aligned with SourcePaths.
	ABIPaths []string

	// Bytecodes holds the hex creation bytecode per unit, index-aligned with SourcePaths. It is nil until a
	// batch compile succeeds for every unit; a failed batch never publishes partial results.
	Bytecodes []string

	// VenvPath is the root of the virtual environment holding the compiler installation. If empty, the compiler
	// is resolved from the system PATH.
	VenvPath string

	// artifactCache, if set, is consulted before spawning the compiler for a unit and updated after a
	// successful compile.
	artifactCache *cache.ArtifactCache

	// logger is used to report batch progress. Each batch run is tagged with a unique run identifier.
	logger *logging.Logger
}

// NewBatch creates a batch for the given contract source files, deriving each ABI output path from its source.
func NewBatch(sourcePaths []string) *Batch {
	abiPaths := make([]string, len(sourcePaths))
	for i, sourcePath := range sourcePaths {
		abiPaths[i] = utils.GetFilePathWithoutExtension(sourcePath) + ".json"
	}
	return &Batch{
		SourcePaths: sourcePaths,
		ABIPaths:    abiPaths,
		logger:      logging.GlobalLogger.NewSubLogger("module", "compiler"),
	}
}

// NewBatchWithABIPaths creates a batch with explicit ABI output paths. The two sequences must be of equal length;
// this is a hard precondition checked before any work begins.
func NewBatchWithABIPaths(sourcePaths []string, abiPaths []string) (*Batch, error) {
	if len(sourcePaths) != len(abiPaths) {
		return nil, ErrMismatchedLengths
	}
	batch := NewBatch(sourcePaths)
	batch.ABIPaths = abiPaths
	return batch, nil
}

// BatchFromDirectory creates a batch from all Vyper contract source files found directly in the given directory.
func BatchFromDirectory(directory string) (*Batch, error) {
	sourcePaths, err := contractsInDirectory(directory)
	if err != nil {
		return nil, err
	}
	return NewBatch(sourcePaths), nil
}

// BatchFromWorkspace creates a batch from all Vyper contract source files found in the conventional source
// directories of a project workspace: its root, contracts/ (hardhat, ape) and src/ (foundry). The directories are
// scanned concurrently; ones which do not exist are skipped.
func BatchFromWorkspace(root string) (*Batch, error) {
	candidates := []string{
		root,
		filepath.Join(root, "contracts"),
		filepath.Join(root, "src"),
	}

	// Scan each candidate directory concurrently, each task writing only to its own slot.
	results := make([][]string, len(candidates))
	var wg sync.WaitGroup
	for i, dir := range candidates {
		wg.Add(1)
		go func(i int, dir string) {
			defer wg.Done()
			if sourcePaths, err := contractsInDirectory(dir); err == nil {
				results[i] = sourcePaths
			}
		}(i, dir)
	}
	wg.Wait()

	var sourcePaths []string
	for _, r := range results {
		sourcePaths = append(sourcePaths, r...)
	}
	return NewBatch(sourcePaths), nil
}

// contractsInDirectory returns the paths of all .vy files directly inside the given directory.
func contractsInDirectory(directory string) ([]string, error) {
	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var sourcePaths []string
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() && filepath.Ext(dirEntry.Name()) == ".vy" {
			sourcePaths = append(sourcePaths, filepath.Join(directory, dirEntry.Name()))
		}
	}
	return sourcePaths, nil
}

// SetVenv sets the virtual environment root used to resolve the compiler for every unit in the batch.
func (b *Batch) SetVenv(venvPath string) {
	b.VenvPath = venvPath
}

// SetCache attaches a persistent artifact cache to the batch. Cached units skip their compiler invocation on
// subsequent batch compiles of unchanged sources.
func (b *Batch) SetCache(artifactCache *cache.ArtifactCache) {
	b.artifactCache = artifactCache
}

// Len returns the number of compilation units in the batch.
func (b *Batch) Len() int {
	return len(b.SourcePaths)
}

// fanOut dispatches one goroutine per index in [0, n), each running the given task for its own index, and waits
// for all of them. Tasks are expected to write only to their own pre-allocated result slot, so no locking is
// needed. After all tasks finish, the error of the lowest failed index is returned; siblings of a failed task are
// allowed to run to completion rather than being cancelled, and no partial result is observable to the caller.
func fanOut(n int, task func(i int) error) error {
	taskErrors := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			taskErrors[i] = task(i)
		}(i)
	}
	wg.Wait()

	for _, err := range taskErrors {
		if err != nil {
			return err
		}
	}
	return nil
}

// CompileAll compiles every unit in the batch concurrently. On success, Bytecodes holds one trimmed bytecode
// string per unit, index-aligned with SourcePaths regardless of the order in which individual compiles finished.
// On failure, the error of the lowest failed index is returned and Bytecodes is left unchanged.
func (b *Batch) CompileAll() error {
	return b.compileAll(nil, "bytecode")
}

// CompileAllForVersion compiles every unit in the batch concurrently, targeting a specific EVM version uniformly.
func (b *Batch) CompileAllForVersion(evmVersion EvmVersion) error {
	if !evmVersion.Valid() {
		return fmt.Errorf("unsupported EVM version '%s'", evmVersion)
	}
	return b.compileAll([]string{"--evm-version", evmVersion.String()}, "bytecode@"+evmVersion.String())
}

// compileAll is the shared concurrent compile implementation. The compiler path is resolved once for the whole
// batch; per-unit work is process spawn, output capture and light post-processing. mode keys the artifact cache
// so that bytecode compiled for different EVM targets is never conflated.
func (b *Batch) compileAll(extraArgs []string, mode string) error {
	// Resolve the binary once; every unit shares it.
	compilerPath := ResolveCompilerPath(b.VenvPath)

	// Tag this batch run for log correlation.
	runID := uuid.New().String()
	b.logger.Debug("starting batch compile", logging.StructuredLogInfo{"run": runID, "units": b.Len(), "mode": mode})

	results := make([]string, b.Len())
	err := fanOut(b.Len(), func(i int) error {
		// Consult the artifact cache before spawning the compiler.
		var cacheKey []byte
		if b.artifactCache != nil {
			if key, keyErr := cache.Key(b.SourcePaths[i], mode); keyErr == nil {
				cacheKey = key
				if bytecode, found, getErr := b.artifactCache.Get(key); getErr == nil && found {
					results[i] = bytecode
					return nil
				}
			}
		}

		args := append([]string{b.SourcePaths[i]}, extraArgs...)
		cmd := exec.Command(compilerPath, args...)
		cmdStdout, cmdStderr, _, runErr := utils.RunCommandWithOutputAndError(cmd)
		if runErr != nil {
			return NewCompilerError(cmdStderr, runErr)
		}
		results[i] = strings.TrimSpace(string(cmdStdout))

		// Record the fresh result. A cache write failure does not fail the compile.
		if b.artifactCache != nil && cacheKey != nil {
			if putErr := b.artifactCache.Put(cacheKey, results[i]); putErr != nil {
				b.logger.Warn("failed to cache compiled bytecode", putErr)
			}
		}
		return nil
	})
	if err != nil {
		b.logger.Debug("batch compile failed", err, logging.StructuredLogInfo{"run": runID})
		return err
	}

	// Publish the aligned results only once every unit has succeeded.
	b.Bytecodes = results
	b.logger.Debug("batch compile finished", logging.StructuredLogInfo{"run": runID, "units": b.Len()})
	return nil
}

// ExtractABIAll extracts every unit's ABI concurrently and returns them as parsed JSON values, index-aligned with
// SourcePaths. This is a pure query; nothing is written to disk.
func (b *Batch) ExtractABIAll() ([]any, error) {
	compilerPath := ResolveCompilerPath(b.VenvPath)

	results := make([]any, b.Len())
	err := fanOut(b.Len(), func(i int) error {
		out, execErr := b.executeWith(compilerPath, "-f", string(FormatABI), b.SourcePaths[i])
		if execErr != nil {
			return execErr
		}
		var parsed any
		if jsonErr := json.Unmarshal(out, &parsed); jsonErr != nil {
			return errors.WithStack(jsonErr)
		}
		results[i] = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// WriteABIAll extracts every unit's ABI concurrently and persists each, pretty-printed, at its aligned ABI path.
func (b *Batch) WriteABIAll() error {
	compilerPath := ResolveCompilerPath(b.VenvPath)

	return fanOut(b.Len(), func(i int) error {
		out, execErr := b.executeWith(compilerPath, "-f", string(FormatABI), b.SourcePaths[i])
		if execErr != nil {
			return execErr
		}
		var parsed any
		if jsonErr := json.Unmarshal(out, &parsed); jsonErr != nil {
			return errors.WithStack(jsonErr)
		}
		pretty, jsonErr := json.MarshalIndent(parsed, "", "  ")
		if jsonErr != nil {
			return errors.WithStack(jsonErr)
		}
		return utils.WriteJSONFile(b.ABIPaths[i], pretty)
	})
}

// executeWith invokes an already-resolved compiler binary with the provided arguments, wrapping any failure as a
// CompilerError carrying the captured stderr verbatim.
func (b *Batch) executeWith(compilerPath string, args ...string) ([]byte, error) {
	cmd := exec.Command(compilerPath, args...)
	cmdStdout, cmdStderr, _, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return nil, NewCompilerError(cmdStderr, err)
	}
	return cmdStdout, nil
}
