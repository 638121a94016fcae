package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/schema"
)

// WriteOptions tune result output.
type WriteOptions struct {
	// FormulaLabels writes "U02: +1.05Dead+..." instead of "U02" in Output Case.
	FormulaLabels bool
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func keyHeader(sc schema.Schema) []string {
	cols := make([]string, 0, len(sc.KeyColumns))
	for _, kc := range sc.KeyColumns {
		cols = append(cols, kc.Name)
	}
	return cols
}

func keyCells(sc schema.Schema, k combo.Key) []string {
	cells := make([]string, 0, len(sc.KeyColumns))
	for _, kc := range sc.KeyColumns {
		cells = append(cells, k.Slot(kc.Slot))
	}
	return cells
}

func caseLabel(name string, opts WriteOptions) string {
	if !opts.FormulaLabels {
		return name
	}
	if r, ok := combo.RuleByName(name); ok {
		return r.Formula()
	}
	return name
}

func resultCells(sc schema.Schema, r combo.ResultRow, opts WriteOptions) []string {
	cells := append(keyCells(sc, r.Key), caseLabel(r.Combination, opts))
	for _, v := range r.Values {
		cells = append(cells, formatNumber(v))
	}
	return cells
}

func resultHeader(sc schema.Schema) []string {
	return append(append(keyHeader(sc), schema.CaseColumn), sc.Metrics[:]...)
}

// WriteResults writes result rows in the shape of the input table.
func WriteResults(w io.Writer, sc schema.Schema, rows []combo.ResultRow, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader(sc)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(resultCells(sc, r, opts)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLocated writes result rows followed by X, Y, Z. Rows without a
// coordinate get empty cells.
func WriteLocated(w io.Writer, sc schema.Schema, rows []combo.LocatedRow, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(resultHeader(sc), "X", "Y", "Z")); err != nil {
		return err
	}
	for _, r := range rows {
		cells := resultCells(sc, r.ResultRow, opts)
		if r.Coord != nil {
			cells = append(cells, formatNumber(r.Coord.X), formatNumber(r.Coord.Y), formatNumber(r.Coord.Z))
		} else {
			cells = append(cells, "", "", "")
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEnvelope writes one row per entity with the max and min of every
// metric and the combination that governs each.
func WriteEnvelope(w io.Writer, sc schema.Schema, rows []combo.EnvelopeRow) error {
	header := keyHeader(sc)
	for _, m := range sc.Metrics {
		header = append(header, m+" Max", m+" Max Case", m+" Min", m+" Min Case")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		cells := keyCells(sc, r.Key)
		for m := range sc.Metrics {
			cells = append(cells,
				formatNumber(r.Max[m].Value), r.Max[m].Combination,
				formatNumber(r.Min[m].Value), r.Min[m].Combination)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CreateFile opens path for writing, creating parent directories.
func CreateFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return os.Create(path)
}

// Summary is the JSON report of one run.
type Summary struct {
	RunID        string          `json:"run_id"`
	Mode         schema.Mode     `json:"mode"`
	Source       string          `json:"source"`
	Basis        *BasisInfo      `json:"basis,omitempty"`
	Entities     int             `json:"entities"`
	Rows         int             `json:"rows"`
	MissingCases []string        `json:"missing_cases,omitempty"`
	Ignored      int             `json:"ignored_records"`
	Combinations []string        `json:"combinations"`
	Envelope     []SummaryEntity `json:"envelope"`
}

// BasisInfo describes an underground derivation.
type BasisInfo struct {
	SourceGroup string             `json:"source_group"`
	Label       string             `json:"label"`
	Factors     map[string]float64 `json:"factors"`
}

// SummaryEntity is the envelope of one entity.
type SummaryEntity struct {
	Key     map[string]string         `json:"key"`
	Metrics map[string]SummaryExtreme `json:"metrics"`
}

// SummaryExtreme is the governing range of one metric.
type SummaryExtreme struct {
	Max     float64 `json:"max"`
	MaxCase string  `json:"max_case"`
	Min     float64 `json:"min"`
	MinCase string  `json:"min_case"`
}

// NewSummaryEnvelope converts envelope rows for the JSON report.
func NewSummaryEnvelope(sc schema.Schema, rows []combo.EnvelopeRow) []SummaryEntity {
	out := make([]SummaryEntity, 0, len(rows))
	for _, r := range rows {
		e := SummaryEntity{
			Key:     make(map[string]string, len(sc.KeyColumns)),
			Metrics: make(map[string]SummaryExtreme, schema.NumMetrics),
		}
		for _, kc := range sc.KeyColumns {
			e.Key[kc.Name] = r.Key.Slot(kc.Slot)
		}
		for m, name := range sc.Metrics {
			e.Metrics[name] = SummaryExtreme{
				Max: r.Max[m].Value, MaxCase: r.Max[m].Combination,
				Min: r.Min[m].Value, MinCase: r.Min[m].Combination,
			}
		}
		out = append(out, e)
	}
	return out
}

// WriteSummary writes the report as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
