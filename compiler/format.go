package compiler

// OutputFormat describes an artifact format the compiler can emit via its -f flag. When no format is provided, the
// compiler emits creation bytecode.
type OutputFormat string

const (
	// FormatABI requests the contract's JSON ABI.
	FormatABI OutputFormat = "abi"

	// FormatBlueprintBytecode requests ERC-5202 blueprint-wrapped deployment bytecode instead of plain creation
	// bytecode.
	FormatBlueprintBytecode OutputFormat = "blueprint_bytecode"

	// FormatLayout requests the contract's storage layout as JSON.
	FormatLayout OutputFormat = "layout"

	// FormatAST requests the contract's AST as JSON.
	FormatAST OutputFormat = "ast"

	// FormatExternalInterface requests a Vyper external interface stub for the contract.
	FormatExternalInterface OutputFormat = "external_interface"

	// FormatOpcodes requests the opcodes of the deployment bytecode.
	FormatOpcodes OutputFormat = "opcodes"

	// FormatOpcodesRuntime requests the opcodes of the runtime bytecode.
	FormatOpcodesRuntime OutputFormat = "opcodes_runtime"

	// FormatUserdoc requests natspec user documentation as JSON.
	FormatUserdoc OutputFormat = "userdoc"

	// FormatDevdoc requests natspec developer documentation as JSON.
	FormatDevdoc OutputFormat = "devdoc"
)
