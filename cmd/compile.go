package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vyperlang/go-vyper/cache"
	"github.com/vyperlang/go-vyper/cmd/exitcodes"
	"github.com/vyperlang/go-vyper/compiler"
	"github.com/vyperlang/go-vyper/config"
	"github.com/vyperlang/go-vyper/logging"
	"github.com/vyperlang/go-vyper/utils"
	"github.com/vyperlang/go-vyper/venv"
)

// compileCmd represents the command provider for compilation
var compileCmd = &cobra.Command{
	Use:           "compile",
	Short:         "Compiles the project's Vyper contracts",
	Long:          `Compiles the project's Vyper contracts and writes their ABIs`,
	Args:          cmdValidateCompileArgs,
	RunE:          cmdRunCompile,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the compile command
	addCompileFlags()

	// Add the compile command and its associated flags to the root command
	rootCmd.AddCommand(compileCmd)
}

// cmdValidateCompileArgs makes sure that there are no positional arguments provided to the compile command
func cmdValidateCompileArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have no positional args
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("compile does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the compile command", err)
		return err
	}
	return nil
}

// cmdRunCompile executes the CLI compile command and navigates through the following possibilities:
// #1: We will search for either a custom config file (via --config) or the default (govyper.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If govyper.json can't be found, use the default project configuration.
func cmdRunCompile(cmd *cobra.Command, args []string) error {
	var projectConfig *config.ProjectConfig

	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return err
	}

	// If --config was not used, look for `govyper.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the compile command", err)
			return err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		// Try to read the configuration file and throw an error if something goes wrong
		cmdLogger.Info("Reading the configuration file at: ", configPath)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			cmdLogger.Error("Failed to run the compile command", err)
			return err
		}
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed && existenceError != nil {
		cmdLogger.Error("Failed to run the compile command", existenceError)
		return existenceError
	}

	// Possibility #3: --config flag was not used and govyper.json was not found, so use the default project config
	if !configFlagUsed && existenceError != nil {
		cmdLogger.Warn(fmt.Sprintf("Unable to find the config file at %v, will use the default project configuration instead", configPath))

		projectConfig, err = config.GetDefaultProjectConfig()
		if err != nil {
			cmdLogger.Error("Failed to run the compile command", err)
			return err
		}
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithCompileFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return err
	}

	// Configure the global logger from the project configuration.
	logging.GlobalLogger.SetLevel(projectConfig.Logging.Level)
	if projectConfig.Logging.LogDirectory != "" {
		logFile, err := utils.CreateFile(projectConfig.Logging.LogDirectory, "govyper.log")
		if err != nil {
			cmdLogger.Error("Failed to run the compile command", err)
			return err
		}
		defer logFile.Close()
		logging.GlobalLogger.AddWriter(logFile, logging.STRUCTURED)
	}

	if len(projectConfig.Compilation.Targets) == 0 {
		err = fmt.Errorf("no compilation targets were provided")
		cmdLogger.Error("Failed to run the compile command", err)
		return err
	}

	// Provision the compiler before any compilation is attempted.
	venvPath, err := provisionCompiler(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to provision the vyper compiler", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Construct the batch; a target/ABI path count mismatch fails here, before any compilation begins.
	var batch *compiler.Batch
	if len(projectConfig.Compilation.ABIPaths) > 0 {
		batch, err = compiler.NewBatchWithABIPaths(projectConfig.Compilation.Targets, projectConfig.Compilation.ABIPaths)
		if err != nil {
			cmdLogger.Error("Failed to run the compile command", err)
			return err
		}
	} else {
		batch = compiler.NewBatch(projectConfig.Compilation.Targets)
	}
	batch.SetVenv(venvPath)

	// Attach the artifact cache, if enabled.
	if projectConfig.Cache.Enabled {
		artifactCache, err := cache.Open(projectConfig.Cache.Directory)
		if err != nil {
			cmdLogger.Warn("Failed to open the artifact cache, compiling without it", err)
		} else {
			defer artifactCache.Close()
			batch.SetCache(artifactCache)
		}
	}

	// Compile every target. Blueprint output uses the per-unit API as the compiler emits it one contract at a
	// time.
	if projectConfig.Compilation.Blueprint {
		for i, target := range projectConfig.Compilation.Targets {
			unit := compiler.NewVyperInVenvWithABIPath(target, venvPath, batch.ABIPaths[i])
			if err = unit.CompileBlueprint(); err != nil {
				cmdLogger.Error("Failed to compile ", target, err)
				return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeCompilationFailed)
			}
			cmdLogger.Info("Compiled ", target, " to blueprint bytecode (", len(unit.Bytecode), " characters)")
		}
	} else {
		if projectConfig.Compilation.EVMVersion != "" {
			evmVersion, err := compiler.ParseEvmVersion(projectConfig.Compilation.EVMVersion)
			if err != nil {
				cmdLogger.Error("Failed to run the compile command", err)
				return err
			}
			err = batch.CompileAllForVersion(evmVersion)
		} else {
			err = batch.CompileAll()
		}
		if err != nil {
			cmdLogger.Error("Compilation failed", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeCompilationFailed)
		}
		for i, target := range projectConfig.Compilation.Targets {
			cmdLogger.Info("Compiled ", target, " (", len(batch.Bytecodes[i]), " characters)")
		}
	}

	// Persist every contract's ABI alongside its bytecode.
	if err = batch.WriteABIAll(); err != nil {
		cmdLogger.Error("Failed to write contract ABIs", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeCompilationFailed)
	}
	cmdLogger.Info("Wrote ", batch.Len(), " contract ABI(s)")

	return nil
}

// provisionCompiler drives the provisioning lifecycle according to the project configuration and returns the
// virtual environment root to compile with (empty for a global installation). An existing installation is
// verified rather than reinstalled; installation only happens when verification fails.
func provisionCompiler(projectConfig *config.ProjectConfig) (string, error) {
	lifecycle := venv.New(projectConfig.Compilation.Venv.Path)

	// Without isolation, the compiler must already resolve on the global PATH.
	if !projectConfig.Compilation.Venv.Enabled {
		if _, err := lifecycle.Skip().TryReady(); err != nil {
			return "", err
		}
		return "", nil
	}

	initialized, err := lifecycle.Init()
	if err != nil {
		return "", err
	}

	ready, err := initialized.TryReady()
	if err == nil {
		return ready.Path(), nil
	}

	cmdLogger.Info("Installing the vyper compiler into the virtual environment at: ", projectConfig.Compilation.Venv.Path)
	ready, err = initialized.InstallVyper(projectConfig.Compilation.Venv.Version)
	if err != nil {
		return "", err
	}
	return ready.Path(), nil
}
