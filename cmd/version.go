package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/golc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of golc",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintln(out, "Structural Load Combination Tool")
		fmt.Fprintln(out, "Strength combinations U01-U09 with 2.5× lateral shear amplification")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
