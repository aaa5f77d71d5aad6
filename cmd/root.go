package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vyperlang/go-vyper/logging"
)

// rootCmd is the root CLI command, under which all subcommands are registered.
var rootCmd = &cobra.Command{
	Use:   "govyper",
	Short: "An interface to the Vyper smart contract compiler",
	Long:  "govyper provisions the Vyper compiler, drives single and batched compilations, and extracts contract artifacts",
}

// cmdLogger is the logger used to report CLI command progress and failures to console.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true)

// Execute provides an exportable function to invoke the CLI.
func Execute() error {
	return rootCmd.Execute()
}
