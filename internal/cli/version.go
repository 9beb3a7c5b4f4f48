package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version, commit, date := BuildInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "relnotes %s\ncommit: %s\nbuilt:  %s\nrepository: %s\n", version, commit, date, Repository)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
