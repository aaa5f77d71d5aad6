package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vyperlang/go-vyper/version"
)

// versionCmd represents the command provider for the version command
var versionCmd = &cobra.Command{
	Use:           "version",
	Short:         "Prints version information",
	Long:          `Prints version information`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// cmdRunVersion executes the version CLI command
func cmdRunVersion(cmd *cobra.Command, args []string) error {
	fmt.Print(version.GetInfo().String())
	return nil
}
