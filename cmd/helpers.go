package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/diagram"
	"github.com/alexiusacademia/golc/internal/schema"
	"github.com/alexiusacademia/golc/internal/tabular"
)

const rule = "───────────────────────────────────────────────────────────────"

// resolveSchema picks the mode from the flag, falling back to the config.
func resolveSchema(modeFlag string) (schema.Schema, error) {
	if modeFlag == "" {
		return cfg.Schema()
	}
	m, err := schema.ParseMode(modeFlag)
	if err != nil {
		return schema.Schema{}, err
	}
	return schema.For(m)
}

// reshapeOptions merges the config with the duplicate/strict flags when set.
func reshapeOptions(cmd *cobra.Command, duplicates string, requireCases bool) (combo.ReshapeOptions, error) {
	opts, err := cfg.ReshapeOptions()
	if err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("duplicates") {
		opts.Duplicates, err = combo.ParseDuplicatePolicy(duplicates)
		if err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("require-cases") {
		opts.RequireCases = requireCases
	}
	return opts, nil
}

func loadRecords(path string, sc schema.Schema) ([]combo.Record, error) {
	records, err := tabular.LoadRecords(path, sc)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	logger.Debug("Loaded load table",
		zap.String("file", path),
		zap.String("mode", string(sc.Mode)),
		zap.Int("records", len(records)))
	return records, nil
}

// withOutput runs write against path, or stdout when path is empty or "-".
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := tabular.CreateFile(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func missingCaseNames(t *combo.WideTable) []string {
	var names []string
	for _, c := range t.MissingCases() {
		names = append(names, c.String())
	}
	return names
}

func warnMissingCases(t *combo.WideTable) []string {
	names := missingCaseNames(t)
	if len(names) > 0 {
		logger.Warn("Load cases absent from input, zero-filled", zap.Strings("cases", names))
	}
	if t.Ignored > 0 {
		logger.Warn("Records with unknown load cases ignored", zap.Int("records", t.Ignored))
	}
	return names
}

// reportOptions are the optional side outputs shared by combine and underground.
type reportOptions struct {
	summary     string
	chart       string
	chartMetric string
}

func (o reportOptions) write(cmd *cobra.Command, sc schema.Schema, source string, t *combo.WideTable, rows []combo.ResultRow, basis *tabular.BasisInfo) error {
	if o.summary == "" && o.chart == "" {
		return nil
	}
	env := combo.Envelope(rows)

	if o.summary != "" {
		runID := uuid.NewString()
		s := tabular.Summary{
			RunID:        runID,
			Mode:         sc.Mode,
			Source:       source,
			Basis:        basis,
			Entities:     len(env),
			Rows:         len(rows),
			MissingCases: missingCaseNames(t),
			Ignored:      t.Ignored,
			Envelope:     tabular.NewSummaryEnvelope(sc, env),
		}
		for _, r := range combo.Rules() {
			s.Combinations = append(s.Combinations, r.Formula())
		}
		err := withOutput(cmd, o.summary, func(w io.Writer) error {
			return tabular.WriteSummary(w, s)
		})
		if err != nil {
			return fmt.Errorf("error writing summary: %w", err)
		}
		logger.Info("Wrote summary", zap.String("file", o.summary), zap.String("run_id", runID))
	}

	if o.chart != "" {
		m, err := metricIndex(sc, o.chartMetric)
		if err != nil {
			return err
		}
		data := diagram.NewEnvelopeChartData(sc, env, m)
		if err := diagram.ExportEnvelopeChart(data, o.chart); err != nil {
			return fmt.Errorf("error exporting chart: %w", err)
		}
		logger.Info("Exported chart", zap.String("file", o.chart), zap.String("metric", sc.Metrics[m]))
	}
	return nil
}

// metricIndex resolves a metric name, defaulting to the first metric.
func metricIndex(sc schema.Schema, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	m, ok := sc.MetricIndex(name)
	if !ok {
		return 0, fmt.Errorf("unknown metric %q for %s mode (expected one of %s)",
			name, sc.Mode, strings.Join(sc.Metrics[:], ", "))
	}
	return m, nil
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "     %s\n", title)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
}

func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprintln(w, rule)
}
