package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vyperlang/go-vyper/cmd/exitcodes"
	"github.com/vyperlang/go-vyper/venv"
)

// installCmd represents the command provider for compiler installation
var installCmd = &cobra.Command{
	Use:           "install [version]",
	Short:         "Installs the Vyper compiler",
	Long:          `Installs the Vyper compiler into a virtual environment or globally, optionally pinned to an exact version`,
	Args:          cmdValidateInstallArgs,
	RunE:          cmdRunInstall,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add flags to install command
	installCmd.Flags().String("venv", venv.DefaultPath, "path of the virtual environment to install the compiler into")
	installCmd.Flags().Bool("global", false, "install the compiler globally instead of into a virtual environment")

	// Add the install command and its associated flags to the root command
	rootCmd.AddCommand(installCmd)
}

// cmdValidateInstallArgs validates CLI arguments
func cmdValidateInstallArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have no more than 1 arg
	if err := cobra.RangeArgs(0, 1)(cmd, args); err != nil {
		err = fmt.Errorf("install accepts at most 1 version argument (e.g. 0.4.0); none installs the latest")
		cmdLogger.Error("Failed to validate args to the install command", err)
		return err
	}
	return nil
}

// cmdRunInstall executes the install CLI command, driving the provisioning lifecycle end to end
func cmdRunInstall(cmd *cobra.Command, args []string) error {
	var version string
	if len(args) == 1 {
		version = args[0]
	}

	venvPath, err := cmd.Flags().GetString("venv")
	if err != nil {
		cmdLogger.Error("Failed to run the install command", err)
		return err
	}
	useGlobal, err := cmd.Flags().GetBool("global")
	if err != nil {
		cmdLogger.Error("Failed to run the install command", err)
		return err
	}

	lifecycle := venv.New(venvPath)

	// Global installations skip environment provisioning entirely.
	if useGlobal {
		if _, err = lifecycle.Skip().InstallVyper(version); err != nil {
			cmdLogger.Error("Failed to install the vyper compiler globally", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		cmdLogger.Info("Installed the vyper compiler globally")
		return nil
	}

	initialized, err := lifecycle.Init()
	if err != nil {
		cmdLogger.Error("Failed to initialize the virtual environment", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	ready, err := initialized.InstallVyper(version)
	if err != nil {
		cmdLogger.Error("Failed to install the vyper compiler", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	cmdLogger.Info("Installed the vyper compiler into the virtual environment at: ", ready.Path())
	return nil
}
