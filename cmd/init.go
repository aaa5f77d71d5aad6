package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vyperlang/go-vyper/config"
)

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init",
	Short:             "Initializes a project configuration",
	Long:              `Initializes a project configuration`,
	Args:              cmdValidateInitArgs,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add flags to init command
	initCmd.Flags().String("out", "", "output path for the new project configuration file")
	initCmd.Flags().String("venv", "", "path of the virtual environment to provision the compiler into")
	initCmd.Flags().Bool("global", false, "resolve the compiler from the system PATH instead of a virtual environment")

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs will return which flags are valid for dynamic completion for the init command
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// When adding a flag to a command, include the "--" prefix to indicate that it is a flag and not a
			// positional argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})

	// Provide a list of flags that can be used in the current command (but have not been used yet) for
	// autocompletion suggestions
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateInitArgs validates CLI arguments
func cmdValidateInitArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have no positional args
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("init does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}
	return nil
}

// cmdRunInit executes the init CLI command and updates the project configuration with any flags
func cmdRunInit(cmd *cobra.Command, args []string) error {
	// Check to see if --out flag was used and store the value of --out flag
	outputFlagUsed := cmd.Flags().Changed("out")
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	// If we weren't provided an output path (flag was not used), we use our working directory
	if !outputFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		outputPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	projectConfig, err := config.GetDefaultProjectConfig()
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// Update the project configuration given whatever flags were set using the CLI
	if cmd.Flags().Changed("venv") {
		projectConfig.Compilation.Venv.Path, err = cmd.Flags().GetString("venv")
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		projectConfig.Compilation.Venv.Enabled = true
	}
	if cmd.Flags().Changed("global") {
		useGlobal, err := cmd.Flags().GetBool("global")
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		projectConfig.Compilation.Venv.Enabled = !useGlobal
	}

	if _, err = os.Stat(outputPath); err == nil {
		// Prompt user for overwrite confirmation
		fmt.Print("The file already exists. Overwrite? (y/n): ")
		var response string
		if _, err := fmt.Scan(&response); err != nil {
			cmdLogger.Error("Failed to scan input", err)
			return err
		}

		if response != "y" && response != "Y" {
			fmt.Println("Operation canceled.")
			return nil
		}
	}

	// Write our project configuration
	err = projectConfig.WriteToFile(outputPath)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// Print a success message
	if absoluteOutputPath, err := filepath.Abs(outputPath); err == nil {
		outputPath = absoluteOutputPath
	}
	cmdLogger.Info("Project configuration successfully output to: ", outputPath)
	return nil
}
