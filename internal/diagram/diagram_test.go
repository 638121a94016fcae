package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/schema"
)

func envelopeData(t *testing.T) EnvelopeChartData {
	t.Helper()
	sc := schema.MustFor(schema.ModeColumn)
	var records []combo.Record
	for i, c := range []string{"C1", "C2"} {
		k := combo.Key{Group: "L1", SubGroup: c, Identifier: "U" + c, Position: "0"}
		records = append(records,
			combo.Record{Key: k, Case: "Dead", Values: combo.Metrics{100 * float64(i+1), 5}},
			combo.Record{Key: k, Case: "EX", Values: combo.Metrics{20, 10}},
		)
	}
	rows, err := combo.Combine(records, sc, combo.ReshapeOptions{})
	require.NoError(t, err)
	return NewEnvelopeChartData(sc, combo.Envelope(rows), 1)
}

func TestNewEnvelopeChartData(t *testing.T) {
	data := envelopeData(t)
	assert.Equal(t, "V2", data.Metric)
	require.Len(t, data.Bars, 2)
	assert.Equal(t, "L1 C1 UC1 0", data.Bars[0].Label)
	// V2 max under U02: 1.05*5 + 2.5*10
	assert.InDelta(t, 30.25, data.Bars[0].Max, 1e-9)
	assert.Equal(t, "U02", data.Bars[0].MaxCase)
}

func TestDrawASCIIEnvelope(t *testing.T) {
	out := DrawASCIIEnvelope(envelopeData(t))
	assert.Contains(t, out, "V2 ENVELOPE")
	assert.Contains(t, out, "L1 C2 UC2 0")
	assert.Contains(t, out, "█")
	assert.Equal(t, 2, strings.Count(out, "▕"))
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("RESULT", []string{"rows: 18", "entities: 2"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
}

func TestExportEnvelopeChart(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"env.png", "sub/env.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ExportEnvelopeChart(envelopeData(t), path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	assert.Error(t, ExportEnvelopeChart(EnvelopeChartData{}, filepath.Join(dir, "empty.png")))
}
