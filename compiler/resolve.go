package compiler

import (
	"path/filepath"

	"github.com/vyperlang/go-vyper/utils"
)

const (
	// vyperBinaryName is the name of the Vyper compiler executable.
	vyperBinaryName = "vyper"

	// pipBinaryName is the name of the pip executable used to install the compiler.
	pipBinaryName = "pip3"
)

// ResolveCompilerPath resolves the Vyper compiler executable path for a given virtual environment root. An empty
// root resolves to the bare binary name, deferring to the system PATH. This is the single place where an isolated
// installation differs from a global one; all downstream invocation logic is identical.
func ResolveCompilerPath(venvPath string) string {
	return resolveBinaryPath(venvPath, vyperBinaryName)
}

// ResolvePipPath resolves the pip executable path for a given virtual environment root. An empty root resolves to
// the bare binary name, deferring to the system PATH.
func ResolvePipPath(venvPath string) string {
	return resolveBinaryPath(venvPath, pipBinaryName)
}

// resolveBinaryPath joins a virtual environment root with the platform-specific binary directory and the given
// binary name. Virtual environments place executables under bin/ on Unix-likes and scripts/ on Windows.
func resolveBinaryPath(venvPath string, binaryName string) string {
	if venvPath == "" {
		return binaryName
	}
	if utils.IsWindowsEnvironment() {
		return filepath.Join(venvPath, "scripts", binaryName)
	}
	return filepath.Join(venvPath, "bin", binaryName)
}
