package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/vyperlang/go-vyper/blueprint"
	"github.com/vyperlang/go-vyper/cmd/exitcodes"
)

// blueprintCmd represents the command provider for blueprint decoding
var blueprintCmd = &cobra.Command{
	Use:           "blueprint <bytecode>",
	Short:         "Decodes ERC-5202 blueprint bytecode",
	Long:          `Decodes ERC-5202 blueprint bytecode, provided as a hex string or as a path to a file containing one`,
	Args:          cmdValidateBlueprintArgs,
	RunE:          cmdRunBlueprint,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(blueprintCmd)
}

// cmdValidateBlueprintArgs validates CLI arguments
func cmdValidateBlueprintArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have exactly 1 arg
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		err = fmt.Errorf("blueprint requires exactly 1 bytecode argument (a hex string, or a path to a file containing one)")
		cmdLogger.Error("Failed to validate args to the blueprint command", err)
		return err
	}
	return nil
}

// cmdRunBlueprint executes the blueprint CLI command, decoding the preamble and reporting its fields
func cmdRunBlueprint(cmd *cobra.Command, args []string) error {
	bytecode, err := readBlueprintArgument(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the blueprint command", err)
		return err
	}

	decoded, err := blueprint.Decode(bytecode)
	if err != nil {
		cmdLogger.Error("Failed to decode the provided bytecode", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	fmt.Printf("ERC version:   %d\n", decoded.ERCVersion)
	if len(decoded.PreambleData) > 0 {
		fmt.Printf("Preamble data: %s (%d bytes)\n", hexutil.Encode(decoded.PreambleData), len(decoded.PreambleData))
	} else {
		fmt.Println("Preamble data: (none)")
	}
	fmt.Printf("Initcode:      %s (%d bytes)\n", hexutil.Encode(decoded.Initcode), len(decoded.Initcode))

	// Report the compiler version if the initcode carries trailing metadata.
	if metadata := blueprint.ExtractContractMetadata(decoded.Initcode); metadata != nil {
		if compilerVersion := metadata.CompilerVersion(); compilerVersion != "" {
			fmt.Printf("Compiler:      vyper %s\n", compilerVersion)
		}
	}
	return nil
}

// readBlueprintArgument interprets the positional argument as a hex string, or as a path to a file holding one,
// and returns the raw bytecode.
func readBlueprintArgument(argument string) ([]byte, error) {
	hexString := argument
	if _, err := os.Stat(argument); err == nil {
		contents, err := os.ReadFile(argument)
		if err != nil {
			return nil, err
		}
		hexString = strings.TrimSpace(string(contents))
	}

	if !strings.HasPrefix(hexString, "0x") {
		hexString = "0x" + hexString
	}
	return hexutil.Decode(hexString)
}
