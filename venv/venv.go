// Package venv governs provisioning of the Vyper compiler before any use. The lifecycle is a state machine
// rendered as distinct types, so that each state exposes only the operations valid for it:
//
//	Venv ──Init()──> Initialized ──InstallVyper()/TryReady()──> Ready
//	Venv ──Skip()──> Skipped ──InstallVyper()/TryReady()──> Global
//
// Ready and Global are terminal and are the only types from which compilation units can be created, so compiling
// before the installation has been verified is unrepresentable rather than checked at runtime. Lifecycle values
// carry no mutable state and are safe to share across goroutines without synchronization.
package venv

import (
	"os"
	"os/exec"

	"github.com/vyperlang/go-vyper/compiler"
	"github.com/vyperlang/go-vyper/logging"
	"github.com/vyperlang/go-vyper/utils"
)

// DefaultPath is the virtual environment directory used when none is provided.
const DefaultPath = "./venv"

// vyperPackageName is the pip package name of the Vyper compiler.
const vyperPackageName = "vyper"

// Venv describes a virtual environment that has not been provisioned yet. It can transition to Initialized via
// Init, or to Skipped via Skip.
type Venv struct {
	// path is the root directory of the virtual environment.
	path string

	// logger is used to report provisioning progress.
	logger *logging.Logger
}

// Initialized describes a virtual environment whose directory and runtime exist. The compiler can be installed
// into it via InstallVyper, or an existing installation verified via TryReady.
type Initialized struct {
	path   string
	logger *logging.Logger
}

// Skipped describes a declined isolation: the compiler will be installed into, or resolved from, the global
// environment. InstallVyper and TryReady transition to Global.
type Skipped struct {
	logger *logging.Logger
}

// Ready describes a virtual environment with a verified compiler installation. It is terminal and mints
// compilation units bound to the environment.
type Ready struct {
	path string
}

// Global describes a verified global compiler installation. It is terminal and mints compilation units resolved
// from the system PATH.
type Global struct{}

// New creates an unprovisioned lifecycle value rooted at the given directory. An empty path uses DefaultPath.
func New(path string) *Venv {
	if path == "" {
		path = DefaultPath
	}
	return &Venv{
		path:   path,
		logger: logging.GlobalLogger.NewSubLogger("module", "venv"),
	}
}

// Init ensures the virtual environment directory and its underlying runtime exist, creating them if absent. It is
// an idempotent no-op when the directory already exists.
func (v *Venv) Init() (*Initialized, error) {
	if _, err := os.Stat(v.path); err == nil {
		return &Initialized{path: v.path, logger: v.logger}, nil
	}

	if err := utils.MakeDirectory(v.path); err != nil {
		return nil, err
	}

	// Create the environment's runtime.
	cmd := exec.Command("python3", "-m", "venv", v.path)
	_, cmdStderr, _, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return nil, NewInstallationError(cmdStderr, err)
	}

	v.logger.Debug("created virtual environment at ", v.path)
	return &Initialized{path: v.path, logger: v.logger}, nil
}

// Skip declines isolation; the compiler will be managed globally.
func (v *Venv) Skip() *Skipped {
	return &Skipped{logger: v.logger}
}

// InstallVyper installs the compiler into the virtual environment via its package manager, optionally pinned to
// an exact version (an empty string installs the latest). A non-zero package manager exit fails with an
// InstallationError carrying the raw stderr text.
func (i *Initialized) InstallVyper(version string) (*Ready, error) {
	if err := pipInstall(compiler.ResolvePipPath(i.path), version); err != nil {
		return nil, err
	}
	i.logger.Debug("installed vyper into virtual environment at ", i.path)
	return &Ready{path: i.path}, nil
}

// TryReady verifies an existing compiler installation inside the virtual environment without reinstalling,
// failing with ErrNotInstalled if the expected binary path is absent.
func (i *Initialized) TryReady() (*Ready, error) {
	if _, err := os.Stat(compiler.ResolveCompilerPath(i.path)); err != nil {
		return nil, ErrNotInstalled
	}
	return &Ready{path: i.path}, nil
}

// InstallVyper installs the compiler globally via pip, optionally pinned to an exact version (an empty string
// installs the latest).
func (s *Skipped) InstallVyper(version string) (*Global, error) {
	if err := pipInstall(compiler.ResolvePipPath(""), version); err != nil {
		return nil, err
	}
	s.logger.Debug("installed vyper globally")
	return &Global{}, nil
}

// TryReady verifies that a compiler resolves on the global PATH, failing with ErrNotInstalled otherwise.
func (s *Skipped) TryReady() (*Global, error) {
	if exec.Command(compiler.ResolveCompilerPath(""), "-h").Run() != nil {
		return nil, ErrNotInstalled
	}
	return &Global{}, nil
}

// pipInstall runs the given pip binary to install the compiler package, optionally pinned to an exact version.
func pipInstall(pipPath string, version string) error {
	packageSpec := vyperPackageName
	if version != "" {
		packageSpec = vyperPackageName + "==" + version
	}

	cmd := exec.Command(pipPath, "install", packageSpec)
	_, cmdStderr, _, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return NewInstallationError(cmdStderr, err)
	}
	return nil
}

// Path returns the root directory of the verified virtual environment.
func (r *Ready) Path() string {
	return r.path
}

// Contract creates a compilation unit bound to the verified virtual environment.
func (r *Ready) Contract(sourcePath string) *compiler.Vyper {
	return compiler.NewVyperInVenv(sourcePath, r.path)
}

// ContractWithABIPath creates a compilation unit with an explicit ABI output path, bound to the verified virtual
// environment.
func (r *Ready) ContractWithABIPath(sourcePath string, abiPath string) *compiler.Vyper {
	return compiler.NewVyperInVenvWithABIPath(sourcePath, r.path, abiPath)
}

// Batch creates a batch of compilation units bound to the verified virtual environment.
func (r *Ready) Batch(sourcePaths []string) *compiler.Batch {
	batch := compiler.NewBatch(sourcePaths)
	batch.SetVenv(r.path)
	return batch
}

// BatchFromDirectory creates a batch from all contract sources in a directory, bound to the verified virtual
// environment.
func (r *Ready) BatchFromDirectory(directory string) (*compiler.Batch, error) {
	batch, err := compiler.BatchFromDirectory(directory)
	if err != nil {
		return nil, err
	}
	batch.SetVenv(r.path)
	return batch, nil
}

// Contract creates a compilation unit resolved from the system PATH.
func (g *Global) Contract(sourcePath string) *compiler.Vyper {
	return compiler.NewVyper(sourcePath)
}

// ContractWithABIPath creates a compilation unit with an explicit ABI output path, resolved from the system PATH.
func (g *Global) ContractWithABIPath(sourcePath string, abiPath string) *compiler.Vyper {
	return compiler.NewVyperWithABIPath(sourcePath, abiPath)
}

// Batch creates a batch of compilation units resolved from the system PATH.
func (g *Global) Batch(sourcePaths []string) *compiler.Batch {
	return compiler.NewBatch(sourcePaths)
}

// BatchFromDirectory creates a batch from all contract sources in a directory, resolved from the system PATH.
func (g *Global) BatchFromDirectory(directory string) (*compiler.Batch, error) {
	return compiler.BatchFromDirectory(directory)
}
