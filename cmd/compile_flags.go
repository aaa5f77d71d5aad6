package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vyperlang/go-vyper/config"
)

// addCompileFlags adds the various flags for the compile command
func addCompileFlags() {
	// Prevent alphabetical sorting of usage message
	compileCmd.Flags().SortFlags = false

	// Config file
	compileCmd.Flags().String("config", "", "path to config file")

	// Targets
	compileCmd.Flags().StringSlice("target", []string{}, TargetFlagDescription)

	// EVM target version
	compileCmd.Flags().String("evm-version", "", "EVM version to compile every contract for")

	// Blueprint output
	compileCmd.Flags().Bool("blueprint", false, "emit ERC-5202 blueprint bytecode instead of plain creation bytecode")

	// Virtual environment
	compileCmd.Flags().String("venv", "", "path of the virtual environment holding the compiler")
	compileCmd.Flags().Bool("global", false, "resolve the compiler from the system PATH instead of a virtual environment")

	// Artifact cache
	compileCmd.Flags().Bool("no-cache", false, "disable the persistent artifact cache")
}

// updateProjectConfigWithCompileFlags will update the given projectConfig with any CLI arguments that were
// provided to the compile command
func updateProjectConfigWithCompileFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update targets
	if cmd.Flags().Changed("target") {
		projectConfig.Compilation.Targets, err = cmd.Flags().GetStringSlice("target")
		if err != nil {
			return err
		}
		// Explicit targets invalidate any config-file ABI path alignment.
		projectConfig.Compilation.ABIPaths = nil
	}

	// Update EVM version
	if cmd.Flags().Changed("evm-version") {
		projectConfig.Compilation.EVMVersion, err = cmd.Flags().GetString("evm-version")
		if err != nil {
			return err
		}
	}

	// Update blueprint output enablement
	if cmd.Flags().Changed("blueprint") {
		projectConfig.Compilation.Blueprint, err = cmd.Flags().GetBool("blueprint")
		if err != nil {
			return err
		}
	}

	// Update virtual environment path
	if cmd.Flags().Changed("venv") {
		projectConfig.Compilation.Venv.Path, err = cmd.Flags().GetString("venv")
		if err != nil {
			return err
		}
		projectConfig.Compilation.Venv.Enabled = true
	}

	// Update global compiler resolution
	if cmd.Flags().Changed("global") {
		useGlobal, err := cmd.Flags().GetBool("global")
		if err != nil {
			return err
		}
		projectConfig.Compilation.Venv.Enabled = !useGlobal
	}

	// Update cache enablement
	if cmd.Flags().Changed("no-cache") {
		noCache, err := cmd.Flags().GetBool("no-cache")
		if err != nil {
			return err
		}
		projectConfig.Cache.Enabled = !noCache
	}

	return nil
}
