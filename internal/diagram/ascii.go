package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/schema"
)

// EnvelopeBar is the governing range of one metric for one entity.
type EnvelopeBar struct {
	Label   string
	Max     float64
	MaxCase string
	Min     float64
	MinCase string
}

// EnvelopeChartData holds data for drawing an envelope chart of one metric
type EnvelopeChartData struct {
	Title  string
	Metric string
	Bars   []EnvelopeBar
}

// EntityLabel joins the key columns of an entity, e.g. "B1 C1 U1 0".
func EntityLabel(sc schema.Schema, k combo.Key) string {
	parts := make([]string, 0, len(sc.KeyColumns))
	for _, kc := range sc.KeyColumns {
		parts = append(parts, k.Slot(kc.Slot))
	}
	return strings.Join(parts, " ")
}

// NewEnvelopeChartData collects the envelope of metric m for every entity.
func NewEnvelopeChartData(sc schema.Schema, rows []combo.EnvelopeRow, m int) EnvelopeChartData {
	data := EnvelopeChartData{
		Title:  fmt.Sprintf("%s envelope (U01-U09)", sc.Metrics[m]),
		Metric: sc.Metrics[m],
		Bars:   make([]EnvelopeBar, 0, len(rows)),
	}
	for _, r := range rows {
		data.Bars = append(data.Bars, EnvelopeBar{
			Label:   EntityLabel(sc, r.Key),
			Max:     r.Max[m].Value,
			MaxCase: r.Max[m].Combination,
			Min:     r.Min[m].Value,
			MinCase: r.Min[m].Combination,
		})
	}
	return data
}

// DrawASCIIEnvelope renders each entity as a bar spanning its min..max
// range on a common scale, with the zero axis marked.
func DrawASCIIEnvelope(data EnvelopeChartData) string {
	var sb strings.Builder

	barChars := 40

	lo, hi := 0.0, 0.0
	labelWidth := len("Entity")
	for _, b := range data.Bars {
		lo = min(lo, b.Min)
		hi = max(hi, b.Max)
		labelWidth = max(labelWidth, utf8.RuneCountInString(b.Label))
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	col := func(v float64) int {
		return int((v-lo)/span*float64(barChars-1) + 0.5)
	}
	zero := col(0)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(data.Title)))
	sb.WriteString(fmt.Sprintf("  %s\n\n", strings.Repeat("─", utf8.RuneCountInString(data.Title))))

	for _, b := range data.Bars {
		cells := []rune(strings.Repeat(" ", barChars))
		for i := col(b.Min); i <= col(b.Max); i++ {
			cells[i] = '█'
		}
		if cells[zero] == ' ' {
			cells[zero] = '│'
		}
		sb.WriteString(fmt.Sprintf("  %-*s ▕%s▏ %10.2f (%s) .. %10.2f (%s)\n",
			labelWidth, b.Label, string(cells), b.Min, b.MinCase, b.Max, b.MaxCase))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Scale: %.2f .. %.2f %s, │ = zero\n", lo, hi, data.Metric))

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
