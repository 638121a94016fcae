package cmd

import (
	"fmt"
	"io"
	"maps"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/tabular"
)

var (
	ugFile          string
	ugMode          string
	ugBase          string
	ugLabel         string
	ugDead          string
	ugSDL           string
	ugLive          string
	ugOutput        string
	ugMerge         bool
	ugDuplicates    string
	ugRequireCases  bool
	ugFormulaLabels bool
	ugReport        reportOptions
)

var undergroundCmd = &cobra.Command{
	Use:   "underground",
	Short: "Derive an underground floor from an existing story and combine it",
	Long: `Derive the loads of a synthetic underground floor from an existing
story, scale its gravity cases, and compute U01-U09 for it.

Only the records of the --base story are used. Dead, SDL and Live are
multiplied by their factors (default 1.0, or the values in the config);
EX and EY are copied unchanged. The derived rows are labelled with --label.

Factors are plain decimals with at most two fractional digits
(see factor_decimals in the config).

Examples:
  # Underground floor from the ground story
  golc underground -f load.csv --base GF -o underground.csv

  # Heavier dead load, appended to the regular combinations
  golc underground -f load.csv --base GF --dead 1.25 --merge -o all.csv`,
	RunE: runUnderground,
}

func init() {
	rootCmd.AddCommand(undergroundCmd)

	f := undergroundCmd.Flags()
	f.StringVarP(&ugFile, "file", "f", "", "Path to load table CSV [required]")
	f.StringVarP(&ugMode, "mode", "m", "", "Table mode: column, wall or reaction (default from config)")
	f.StringVar(&ugBase, "base", "", "Story the underground floor is derived from [required]")
	f.StringVar(&ugLabel, "label", "", "Story label of the derived rows (default from config)")
	f.StringVar(&ugDead, "dead", "", "Dead load factor")
	f.StringVar(&ugSDL, "sdl", "", "Superimposed dead load factor")
	f.StringVar(&ugLive, "live", "", "Live load factor")
	f.StringVarP(&ugOutput, "output", "o", "", "Result CSV path (default stdout)")
	f.BoolVar(&ugMerge, "merge", false, "Write the combinations of the whole table followed by the underground rows")
	f.StringVar(&ugDuplicates, "duplicates", "", "Duplicate rows policy: mean, last, sum or reject")
	f.BoolVar(&ugRequireCases, "require-cases", false, "Fail if a load case is missing instead of zero-filling")
	f.BoolVar(&ugFormulaLabels, "formula-labels", false, "Write the combination formula in Output Case")
	f.StringVar(&ugReport.summary, "summary", "", "Write a JSON envelope summary of the underground rows")
	f.StringVar(&ugReport.chart, "chart", "", "Export an envelope chart of the underground rows (png, svg, pdf)")
	f.StringVar(&ugReport.chartMetric, "chart-metric", "", "Metric plotted by --chart (default first metric)")

	undergroundCmd.MarkFlagRequired("file")
	undergroundCmd.MarkFlagRequired("base")
}

// undergroundFactors overlays the factor flags on the configured factors.
func undergroundFactors() (combo.Factors, error) {
	raw := maps.Clone(cfg.Underground.Factors)
	if raw == nil {
		raw = make(map[string]string)
	}
	for name, v := range map[string]string{"Dead": ugDead, "SDL": ugSDL, "Live": ugLive} {
		if v != "" {
			raw[name] = v
		}
	}
	return combo.ParseFactorMap(raw, cfg.FactorDecimals)
}

func runUnderground(cmd *cobra.Command, args []string) error {
	sc, err := resolveSchema(ugMode)
	if err != nil {
		return err
	}
	opts, err := reshapeOptions(cmd, ugDuplicates, ugRequireCases)
	if err != nil {
		return err
	}
	factors, err := undergroundFactors()
	if err != nil {
		return err
	}
	label := ugLabel
	if label == "" {
		label = cfg.Underground.Label
	}
	if label == "" {
		label = combo.DefaultBasisLabel
	}

	records, err := loadRecords(ugFile, sc)
	if err != nil {
		return err
	}

	derived, err := combo.DeriveBasis(records, ugBase, label, factors)
	if err != nil {
		return err
	}
	logger.Info("Derived underground floor",
		zap.String("base", ugBase),
		zap.String("label", label),
		zap.String("factors", factors.String()),
		zap.Int("records", len(derived)))

	ugOpts := opts
	ugOpts.GroupOverride = label
	table, err := combo.Reshape(derived, sc, ugOpts)
	if err != nil {
		return err
	}
	missing := warnMissingCases(table)
	rows := combo.Evaluate(table)

	out := rows
	if ugMerge {
		all, err := combo.Combine(records, sc, opts)
		if err != nil {
			return err
		}
		out = append(all, rows...)
	}

	err = withOutput(cmd, ugOutput, func(w io.Writer) error {
		return tabular.WriteResults(w, sc, out, tabular.WriteOptions{FormulaLabels: ugFormulaLabels})
	})
	if err != nil {
		return err
	}

	basis := &tabular.BasisInfo{
		SourceGroup: ugBase,
		Label:       label,
		Factors:     make(map[string]float64, len(factors)),
	}
	for c, v := range factors {
		basis.Factors[c.String()] = v
	}
	if err := ugReport.write(cmd, sc, ugFile, table, rows, basis); err != nil {
		return err
	}

	if ugOutput != "" && ugOutput != "-" {
		title := fmt.Sprintf("UNDERGROUND FLOOR %s (from %s)", label, ugBase)
		printRunSummary(cmd.OutOrStdout(), title, sc, len(table.Rows), len(out), missing, ugOutput)
	}
	return nil
}
