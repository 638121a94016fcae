package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/schema"
)

var rulesMode string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the load combination rules U01-U09",
	Long: `List the nine strength combinations and their coefficients.

For shear metrics the EX and EY coefficients are multiplied by 2.5.

Example:
  golc rules -m reaction`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := resolveSchema(rulesMode)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		printHeader(out, "LOAD COMBINATIONS")

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprint(tw, "Name\t")
		for _, c := range schema.Cases {
			fmt.Fprintf(tw, "%s\t", c)
		}
		fmt.Fprintln(tw)
		for _, r := range combo.Rules() {
			fmt.Fprintf(tw, "%s\t", r.Name)
			for _, c := range schema.Cases {
				fmt.Fprintf(tw, "%g\t", r.Coefficient(c))
			}
			fmt.Fprintln(tw)
		}
		tw.Flush()
		fmt.Fprintln(out)

		printSection(out, "FORMULAS")
		for _, r := range combo.Rules() {
			fmt.Fprintf(out, "  %s\n", r.Formula())
		}
		fmt.Fprintln(out)

		fmt.Fprintf(out, "Shear metrics (%s mode): %s\n", sc.Mode, strings.Join(sc.ShearMetrics(), ", "))
		fmt.Fprintf(out, "  EX and EY coefficients are multiplied by %g for these columns.\n", combo.ShearAmplification)
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesMode, "mode", "m", "", "Table mode: column, wall or reaction (default from config)")
}
