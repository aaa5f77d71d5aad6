package compiler

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"github.com/vyperlang/go-vyper/utils"
)

// Vyper describes a single Vyper contract compilation unit: the source file it compiles, the path its ABI will be
// written to, and the creation bytecode produced by the most recent successful compile. The ABI path does not need
// to point to an existing file; it is only written when WriteABI is called.
type Vyper struct {
	// SourcePath is the path to the Vyper contract source file.
	SourcePath string

	// ABIPath is the path the contract's JSON ABI will be written to by WriteABI. If not provided on
	// construction, it is derived from SourcePath by replacing the source extension with .json.
	ABIPath string

	// Bytecode is the hex creation bytecode emitted by the most recent successful compile. It is empty until a
	// compile operation succeeds and is left unchanged by failed compiles.
	Bytecode string

	// VenvPath is the root of the virtual environment holding the compiler installation. If empty, the compiler
	// is resolved from the system PATH.
	VenvPath string
}

// versionPattern matches the semantic version component of the compiler's --version output.
var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// NewVyper creates a compilation unit for a contract source file, deriving the ABI output path from it.
func NewVyper(sourcePath string) *Vyper {
	return &Vyper{
		SourcePath: sourcePath,
		ABIPath:    utils.GetFilePathWithoutExtension(sourcePath) + ".json",
	}
}

// NewVyperWithABIPath creates a compilation unit for a contract source file with an explicit ABI output path.
func NewVyperWithABIPath(sourcePath string, abiPath string) *Vyper {
	return &Vyper{
		SourcePath: sourcePath,
		ABIPath:    abiPath,
	}
}

// NewVyperInVenv creates a compilation unit whose compiler is resolved inside the given virtual environment root.
func NewVyperInVenv(sourcePath string, venvPath string) *Vyper {
	v := NewVyper(sourcePath)
	v.VenvPath = venvPath
	return v
}

// NewVyperInVenvWithABIPath creates a compilation unit with both an explicit ABI output path and a virtual
// environment root.
func NewVyperInVenvWithABIPath(sourcePath string, venvPath string, abiPath string) *Vyper {
	v := NewVyperWithABIPath(sourcePath, abiPath)
	v.VenvPath = venvPath
	return v
}

// execute invokes the resolved compiler binary with the provided arguments and returns its stdout. On a non-zero
// exit or spawn failure, a CompilerError carrying the captured stderr verbatim is returned.
func (v *Vyper) execute(args ...string) ([]byte, error) {
	// Create our command against the resolved binary path.
	cmd := exec.Command(ResolveCompilerPath(v.VenvPath), args...)
	cmdStdout, cmdStderr, _, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return nil, NewCompilerError(cmdStderr, err)
	}
	return cmdStdout, nil
}

// Compile invokes the compiler against the source file and stores the trimmed stdout as the unit's creation
// bytecode. On failure, the bytecode is left unchanged and a CompilerError is returned.
func (v *Vyper) Compile() error {
	out, err := v.execute(v.SourcePath)
	if err != nil {
		return err
	}
	v.Bytecode = strings.TrimSpace(string(out))
	return nil
}

// CompileForVersion compiles the source file targeting a specific EVM version.
func (v *Vyper) CompileForVersion(evmVersion EvmVersion) error {
	if !evmVersion.Valid() {
		return fmt.Errorf("unsupported EVM version '%s'", evmVersion)
	}
	out, err := v.execute(v.SourcePath, "--evm-version", evmVersion.String())
	if err != nil {
		return err
	}
	v.Bytecode = strings.TrimSpace(string(out))
	return nil
}

// CompileBlueprint compiles the source file into ERC-5202 blueprint-wrapped deployment bytecode.
func (v *Vyper) CompileBlueprint() error {
	out, err := v.execute("-f", string(FormatBlueprintBytecode), v.SourcePath)
	if err != nil {
		return err
	}
	v.Bytecode = strings.TrimSpace(string(out))
	return nil
}

// ExtractABI invokes the compiler to generate the contract's ABI and returns it as parsed JSON. This is a pure
// query; nothing is written to disk.
func (v *Vyper) ExtractABI() (any, error) {
	out, err := v.execute("-f", string(FormatABI), v.SourcePath)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err = json.Unmarshal(out, &parsed); err != nil {
		return nil, errors.WithStack(err)
	}
	return parsed, nil
}

// WriteABI invokes the compiler to generate the contract's ABI and persists it, pretty-printed, at the unit's ABI
// path.
func (v *Vyper) WriteABI() error {
	parsed, err := v.ExtractABI()
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return utils.WriteJSONFile(v.ABIPath, pretty)
}

// StorageLayout invokes the compiler to generate the contract's storage layout and writes it as pretty-printed
// JSON to storage_layout.json in the working directory.
func (v *Vyper) StorageLayout() error {
	return v.writeJSONArtifact(FormatLayout, "storage_layout.json")
}

// AST invokes the compiler to generate the contract's AST and writes it as pretty-printed JSON to ast.json in the
// working directory.
func (v *Vyper) AST() error {
	return v.writeJSONArtifact(FormatAST, "ast.json")
}

// Userdoc invokes the compiler to generate natspec user documentation and writes it as pretty-printed JSON to
// userdoc.json in the working directory.
func (v *Vyper) Userdoc() error {
	return v.writeJSONArtifact(FormatUserdoc, "userdoc.json")
}

// Devdoc invokes the compiler to generate natspec developer documentation and writes it as pretty-printed JSON to
// devdoc.json in the working directory.
func (v *Vyper) Devdoc() error {
	return v.writeJSONArtifact(FormatDevdoc, "devdoc.json")
}

// Interface invokes the compiler to generate an external interface stub for the contract and writes it to
// interface.vy in the working directory.
func (v *Vyper) Interface() error {
	return v.writeRawArtifact(FormatExternalInterface, "interface.vy")
}

// Opcodes invokes the compiler to generate the deployment bytecode's opcode listing and writes it to opcodes.txt
// in the working directory.
func (v *Vyper) Opcodes() error {
	return v.writeRawArtifact(FormatOpcodes, "opcodes.txt")
}

// OpcodesRuntime invokes the compiler to generate the runtime bytecode's opcode listing and writes it to
// opcodes_runtime.txt in the working directory.
func (v *Vyper) OpcodesRuntime() error {
	return v.writeRawArtifact(FormatOpcodesRuntime, "opcodes_runtime.txt")
}

// writeJSONArtifact invokes the compiler with the given output format, validates the output as JSON, and persists
// it pretty-printed at the given file name.
func (v *Vyper) writeJSONArtifact(format OutputFormat, fileName string) error {
	out, err := v.execute("-f", string(format), v.SourcePath)
	if err != nil {
		return err
	}

	var parsed any
	if err = json.Unmarshal(out, &parsed); err != nil {
		return errors.WithStack(err)
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return utils.WriteJSONFile(fileName, pretty)
}

// writeRawArtifact invokes the compiler with the given output format and persists the raw output at the given
// file name.
func (v *Vyper) writeRawArtifact(format OutputFormat, fileName string) error {
	out, err := v.execute("-f", string(format), v.SourcePath)
	if err != nil {
		return err
	}

	file, err := utils.CreateFile("", fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(out)
	return errors.WithStack(err)
}

// Exists returns a boolean indicating whether a compiler invocation could be spawned for this unit's resolved
// binary path. It never fails; any spawn or exit error reports as non-existence.
func (v *Vyper) Exists() bool {
	return exec.Command(ResolveCompilerPath(v.VenvPath), "-h").Run() == nil
}

// Version queries the resolved compiler binary for its version and parses it as a semantic version.
func (v *Vyper) Version() (*semver.Version, error) {
	out, err := v.execute("--version")
	if err != nil {
		return nil, err
	}

	// Parse the compiler version out of the output
	versionStr := versionPattern.FindString(string(out))
	if versionStr == "" {
		return nil, errors.New("could not parse vyper version using 'vyper --version'")
	}

	// Parse our semver string and return it
	return semver.NewVersion(versionStr)
}
