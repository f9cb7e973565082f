package cmd

import (
	"fmt"

	"github.com/msto63/mAF/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "  Frege: %s\n", version.Frege)
			fmt.Fprintf(cmd.OutOrStdout(), "  REPL:  %s\n", version.REPL)
			fmt.Fprintf(cmd.OutOrStdout(), "  TUI:   %s\n", version.TUI)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
