package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/diagram"
	"github.com/alexiusacademia/golc/internal/schema"
	"github.com/alexiusacademia/golc/internal/tabular"
)

var (
	combineFile          string
	combineMode          string
	combineOutput        string
	combineCoords        string
	combineFactors       []string
	combineDuplicates    string
	combineRequireCases  bool
	combineFormulaLabels bool
	combineReport        reportOptions
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Compute load combinations U01-U09 from a load table",
	Long: `Compute the factored load combinations U01-U09 for every member
of a CSV load table.

The table must contain the key columns of the selected mode, the
"Output Case" column (Dead, SDL, Live, EX, EY) and the six metric columns:

  column    Story, Column, Unique Name, Station   P V2 V3 T M2 M3
  wall      Story, Pier, Location                 P V2 V3 T M2 M3
  reaction  Story, Unique Name                    FX FY FZ MX MY MZ

Lateral cases (EX, EY) are multiplied by 2.5 for shear metrics
(V2, V3 or FX, FY). Missing cases are treated as zero.

Examples:
  # Column forces, result to a file
  golc combine -f load.csv -o load_combinations_result.csv

  # Joint reactions with coordinates and pre-scaled dead load
  golc combine -m reaction -f reactions.csv --coords joints.csv --factor Dead=1.1

  # Envelope summary and chart
  golc combine -f load.csv -o out.csv --summary out.json --chart p.png --chart-metric P`,
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().StringVarP(&combineFile, "file", "f", "", "Path to load table CSV [required]")
	combineCmd.Flags().StringVarP(&combineMode, "mode", "m", "", "Table mode: column, wall or reaction (default from config)")
	combineCmd.Flags().StringVarP(&combineOutput, "output", "o", "", "Result CSV path (default stdout)")
	combineCmd.Flags().StringVar(&combineCoords, "coords", "", "Joint coordinate CSV (Unique Name, X, Y, Z), reaction mode only")
	combineCmd.Flags().StringArrayVar(&combineFactors, "factor", nil, "Scale a load case before combining, e.g. Dead=1.1 (repeatable)")
	combineCmd.Flags().StringVar(&combineDuplicates, "duplicates", "", "Duplicate rows policy: mean, last, sum or reject")
	combineCmd.Flags().BoolVar(&combineRequireCases, "require-cases", false, "Fail if a load case is missing instead of zero-filling")
	combineCmd.Flags().BoolVar(&combineFormulaLabels, "formula-labels", false, "Write the combination formula in Output Case")
	combineCmd.Flags().StringVar(&combineReport.summary, "summary", "", "Write a JSON envelope summary")
	combineCmd.Flags().StringVar(&combineReport.chart, "chart", "", "Export an envelope chart (png, svg, pdf)")
	combineCmd.Flags().StringVar(&combineReport.chartMetric, "chart-metric", "", "Metric plotted by --chart (default first metric)")

	combineCmd.MarkFlagRequired("file")
}

func runCombine(cmd *cobra.Command, args []string) error {
	sc, err := resolveSchema(combineMode)
	if err != nil {
		return err
	}
	opts, err := reshapeOptions(cmd, combineDuplicates, combineRequireCases)
	if err != nil {
		return err
	}
	if combineCoords != "" && sc.Mode != schema.ModeReaction {
		return errors.New("--coords is only supported in reaction mode")
	}

	records, err := loadRecords(combineFile, sc)
	if err != nil {
		return err
	}

	if len(combineFactors) > 0 {
		factors, err := combo.ParseFactorAssignments(combineFactors, cfg.FactorDecimals)
		if err != nil {
			return err
		}
		records, err = combo.ScaleCases(records, factors)
		if err != nil {
			return err
		}
		logger.Info("Scaled load cases", zap.String("factors", factors.String()))
	}

	table, err := combo.Reshape(records, sc, opts)
	if err != nil {
		return err
	}
	missing := warnMissingCases(table)
	rows := combo.Evaluate(table)

	wopts := tabular.WriteOptions{FormulaLabels: combineFormulaLabels}
	err = withOutput(cmd, combineOutput, func(w io.Writer) error {
		if combineCoords == "" {
			return tabular.WriteResults(w, sc, rows, wopts)
		}
		coords, err := tabular.LoadCoordinates(combineCoords)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", combineCoords, err)
		}
		return tabular.WriteLocated(w, sc, combo.JoinCoordinates(rows, coords), wopts)
	})
	if err != nil {
		return err
	}

	logger.Info("Computed load combinations",
		zap.String("mode", string(sc.Mode)),
		zap.Int("entities", len(table.Rows)),
		zap.Int("rows", len(rows)),
		zap.String("duplicates", string(opts.Duplicates)))

	if err := combineReport.write(cmd, sc, combineFile, table, rows, nil); err != nil {
		return err
	}

	if combineOutput != "" && combineOutput != "-" {
		printRunSummary(cmd.OutOrStdout(), "LOAD COMBINATIONS U01-U09", sc, len(table.Rows), len(rows), missing, combineOutput)
	}
	return nil
}

func printRunSummary(w io.Writer, title string, sc schema.Schema, entities, rows int, missing []string, output string) {
	printHeader(w, title)

	printSection(w, "INPUT")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Mode:\t%s\n", sc.Mode)
	fmt.Fprintf(tw, "  Entities:\t%d\n", entities)
	if len(missing) > 0 {
		fmt.Fprintf(tw, "  Zero-filled cases:\t%v\n", missing)
	}
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprint(w, diagram.DrawSummaryBox("RESULT", []string{
		fmt.Sprintf("Combination rows: %d", rows),
		fmt.Sprintf("Written to: %s", output),
	}))
	fmt.Fprintln(w)
}
