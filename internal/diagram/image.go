package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ExportEnvelopeChart exports a bar chart of the max and min of one metric
// per entity. The format follows the file extension (png, svg, pdf).
func ExportEnvelopeChart(data EnvelopeChartData, filename string) error {
	if len(data.Bars) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = data.Title
	p.Y.Label.Text = data.Metric
	p.X.Label.Text = "Entity"

	maxValues := make(plotter.Values, len(data.Bars))
	minValues := make(plotter.Values, len(data.Bars))
	labels := make([]string, len(data.Bars))
	for i, b := range data.Bars {
		maxValues[i] = b.Max
		minValues[i] = b.Min
		labels[i] = b.Label
	}

	barWidth := vg.Points(10)

	maxBars, err := plotter.NewBarChart(maxValues, barWidth)
	if err != nil {
		return err
	}
	maxBars.Color = color.RGBA{R: 100, G: 149, B: 237, A: 255}
	maxBars.LineStyle.Width = vg.Length(0)
	maxBars.Offset = -barWidth / 2

	minBars, err := plotter.NewBarChart(minValues, barWidth)
	if err != nil {
		return err
	}
	minBars.Color = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	minBars.LineStyle.Width = vg.Length(0)
	minBars.Offset = barWidth / 2

	p.Add(plotter.NewGrid(), maxBars, minBars)
	p.Legend.Add("Max", maxBars)
	p.Legend.Add("Min", minBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	// Zero reference line
	zero, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 0},
		{X: float64(len(data.Bars)) - 0.5, Y: 0},
	})
	if err != nil {
		return err
	}
	zero.LineStyle.Color = color.Gray{Y: 64}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zero)

	width := max(6*vg.Inch, vg.Length(len(data.Bars))*0.6*vg.Inch)
	height := 5 * vg.Inch

	// Create directory if needed
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
