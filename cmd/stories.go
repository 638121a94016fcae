package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/golc/internal/combo"
)

var (
	storiesFile string
	storiesMode string
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List the stories (groups) present in a load table",
	Long: `List the distinct Story values of a load table with their record
counts. Use it to choose the --base story of the underground command.

Example:
  golc stories -f load.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := resolveSchema(storiesMode)
		if err != nil {
			return err
		}
		records, err := loadRecords(storiesFile, sc)
		if err != nil {
			return err
		}

		counts := make(map[string]int)
		for _, r := range records {
			counts[r.Key.Group]++
		}

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\tRecords\n", sc.GroupColumn())
		for _, g := range combo.Groups(records) {
			fmt.Fprintf(tw, "%s\t%d\n", g, counts[g])
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(storiesCmd)

	storiesCmd.Flags().StringVarP(&storiesFile, "file", "f", "", "Path to load table CSV [required]")
	storiesCmd.Flags().StringVarP(&storiesMode, "mode", "m", "", "Table mode: column, wall or reaction (default from config)")

	storiesCmd.MarkFlagRequired("file")
}
