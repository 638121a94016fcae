package cmd

import (
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
	envFile         string
	envMode         string
	envMetric       string
	envOutput       string
	envDiagram      bool
	envChart        string
	envDuplicates   string
	envRequireCases bool
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Report the governing combination per member",
	Long: `Combine a load table and report, for every member, the maximum
and minimum of each metric over U01-U09 and the combination that
governs it.

Examples:
  # Governing P of every column
  golc envelope -f load.csv --metric P

  # ASCII bar chart of V2
  golc envelope -f load.csv --metric V2 --diagram

  # Full envelope as CSV
  golc envelope -f load.csv -o envelope.csv`,
	RunE: runEnvelope,
}

func init() {
	rootCmd.AddCommand(envelopeCmd)

	f := envelopeCmd.Flags()
	f.StringVarP(&envFile, "file", "f", "", "Path to load table CSV [required]")
	f.StringVarP(&envMode, "mode", "m", "", "Table mode: column, wall or reaction (default from config)")
	f.StringVar(&envMetric, "metric", "", "Metric to report (default all metrics)")
	f.StringVarP(&envOutput, "output", "o", "", "Write the full envelope as CSV")
	f.BoolVarP(&envDiagram, "diagram", "d", false, "Show an ASCII envelope chart of --metric")
	f.StringVar(&envChart, "chart", "", "Export an envelope chart of --metric (png, svg, pdf)")
	f.StringVar(&envDuplicates, "duplicates", "", "Duplicate rows policy: mean, last, sum or reject")
	f.BoolVar(&envRequireCases, "require-cases", false, "Fail if a load case is missing instead of zero-filling")

	envelopeCmd.MarkFlagRequired("file")
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	sc, err := resolveSchema(envMode)
	if err != nil {
		return err
	}
	opts, err := reshapeOptions(cmd, envDuplicates, envRequireCases)
	if err != nil {
		return err
	}

	metrics := make([]int, 0, schema.NumMetrics)
	if envMetric != "" {
		m, err := metricIndex(sc, envMetric)
		if err != nil {
			return err
		}
		metrics = append(metrics, m)
	} else {
		for m := range sc.Metrics {
			metrics = append(metrics, m)
		}
	}

	records, err := loadRecords(envFile, sc)
	if err != nil {
		return err
	}
	table, err := combo.Reshape(records, sc, opts)
	if err != nil {
		return err
	}
	warnMissingCases(table)
	env := combo.Envelope(combo.Evaluate(table))
	logger.Info("Computed envelope", zap.Int("entities", len(env)))

	if envOutput != "" {
		err := withOutput(cmd, envOutput, func(w io.Writer) error {
			return tabular.WriteEnvelope(w, sc, env)
		})
		if err != nil {
			return err
		}
		logger.Info("Wrote envelope", zap.String("file", envOutput))
	}

	out := cmd.OutOrStdout()
	if envOutput == "" {
		printHeader(out, "GOVERNING LOAD COMBINATIONS")
		for _, m := range metrics {
			printEnvelopeTable(out, sc, env, m)
		}
	}

	if envDiagram {
		fmt.Fprint(out, diagram.DrawASCIIEnvelope(diagram.NewEnvelopeChartData(sc, env, metrics[0])))
	}

	if envChart != "" {
		data := diagram.NewEnvelopeChartData(sc, env, metrics[0])
		if err := diagram.ExportEnvelopeChart(data, envChart); err != nil {
			return fmt.Errorf("error exporting chart: %w", err)
		}
		fmt.Fprintf(out, "\n  Chart exported to: %s\n", envChart)
	}
	return nil
}

func printEnvelopeTable(w io.Writer, sc schema.Schema, env []combo.EnvelopeRow, m int) {
	printSection(w, sc.Metrics[m])
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, kc := range sc.KeyColumns {
		fmt.Fprintf(tw, "  %s\t", kc.Name)
	}
	fmt.Fprintln(tw, "Max\tCase\tMin\tCase\tGoverning\t")
	for _, r := range env {
		for _, kc := range sc.KeyColumns {
			fmt.Fprintf(tw, "  %s\t", r.Key.Slot(kc.Slot))
		}
		g := r.Governing(m)
		fmt.Fprintf(tw, "%.4f\t%s\t%.4f\t%s\t%s\t\n",
			r.Max[m].Value, r.Max[m].Combination,
			r.Min[m].Value, r.Min[m].Combination,
			g.Combination)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
