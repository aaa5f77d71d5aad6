package compiler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vyperlang/go-vyper/utils"
)

func TestResolveCompilerPath_Global(t *testing.T) {
	t.Parallel()

	// An empty root defers to the system PATH via the bare binary name.
	assert.Equal(t, "vyper", ResolveCompilerPath(""))
	assert.Equal(t, "pip3", ResolvePipPath(""))
}

func TestResolveCompilerPath_Venv(t *testing.T) {
	t.Parallel()

	binDir := "bin"
	if utils.IsWindowsEnvironment() {
		binDir = "scripts"
	}

	assert.Equal(t, filepath.Join("venv", binDir, "vyper"), ResolveCompilerPath("venv"))
	assert.Equal(t, filepath.Join("/opt/venv", binDir, "pip3"), ResolvePipPath("/opt/venv"))
}
