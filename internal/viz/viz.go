// Package viz renders visual diagnostics for a dataset: per-column
// histograms and box plots, categorical count plots, and a correlation
// heatmap. Plots are served as PNG by the web UI and saved alongside
// dataset exports.
package viz

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"scrub/domain/core"
	"scrub/domain/report"
	"scrub/domain/table"
)

const (
	plotWidth  = 5 * vg.Inch
	plotHeight = 4 * vg.Inch

	// DefaultBins is the histogram bin count.
	DefaultBins = 16
	// DefaultMaxCategories caps count plots at the most frequent values.
	DefaultMaxCategories = 12
)

// Histogram renders the distribution of a numeric column's non-missing
// values.
func Histogram(c *table.Column, bins int) (*plot.Plot, error) {
	if c.Kind != table.KindNumeric {
		return nil, core.NewWrongColumnTypeError(c.Name, "numeric")
	}
	values := c.NonMissingFloats()
	if len(values) == 0 {
		return nil, core.NewInvalidInputError(fmt.Sprintf("column '%s' has no values to plot", c.Name))
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram for '%s': %w", c.Name, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", c.Name)
	p.X.Label.Text = c.Name
	p.Y.Label.Text = "count"
	p.Add(h)
	return p, nil
}

// BoxPlot renders the five-number summary of a numeric column, the
// usual quick look for outliers.
func BoxPlot(c *table.Column) (*plot.Plot, error) {
	if c.Kind != table.KindNumeric {
		return nil, core.NewWrongColumnTypeError(c.Name, "numeric")
	}
	values := c.NonMissingFloats()
	if len(values) == 0 {
		return nil, core.NewInvalidInputError(fmt.Sprintf("column '%s' has no values to plot", c.Name))
	}

	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(values))
	if err != nil {
		return nil, fmt.Errorf("box plot for '%s': %w", c.Name, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Box plot of %s", c.Name)
	p.Y.Label.Text = c.Name
	p.Add(b)
	p.NominalX(c.Name)
	return p, nil
}

// CountPlot renders the value frequencies of a categorical column,
// most frequent first, capped at maxCategories bars.
func CountPlot(c *table.Column, maxCategories int) (*plot.Plot, error) {
	if c.Kind != table.KindCategorical {
		return nil, core.NewWrongColumnTypeError(c.Name, "categorical")
	}
	if maxCategories <= 0 {
		maxCategories = DefaultMaxCategories
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, v := range c.Strings {
		if c.IsMissing(i) {
			continue
		}
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return nil, core.NewInvalidInputError(fmt.Sprintf("column '%s' has no values to plot", c.Name))
	}

	labels := make([]string, 0, len(counts))
	for v := range counts {
		labels = append(labels, v)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return firstSeen[labels[i]] < firstSeen[labels[j]]
	})
	if len(labels) > maxCategories {
		labels = labels[:maxCategories]
	}

	values := make(plotter.Values, len(labels))
	for i, v := range labels {
		values[i] = float64(counts[v])
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("count plot for '%s': %w", c.Name, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Value counts of %s", c.Name)
	p.Y.Label.Text = "count"
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// corrGrid adapts a correlation matrix to the heatmap grid interface.
// Undefined coefficients render as the neutral midpoint.
type corrGrid struct {
	cm report.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.cm.Columns)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	v := float64(g.cm.Coeffs[r][c])
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap renders the pairwise correlation matrix on a
// diverging blue-red scale fixed to [-1, 1].
func CorrelationHeatmap(cm report.CorrelationMatrix) (*plot.Plot, error) {
	if len(cm.Columns) == 0 {
		return nil, core.ErrNoNumericColumns
	}

	h := plotter.NewHeatMap(corrGrid{cm: cm}, moreland.SmoothBlueRed().Palette(255))
	h.Min, h.Max = -1, 1

	p := plot.New()
	p.Title.Text = "Correlation Matrix"
	p.Add(h)

	ticks := make([]plot.Tick, len(cm.Columns))
	for i, name := range cm.Columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	return p, nil
}

// WritePNG renders a plot as PNG to the given stream.
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveAll writes every diagnostic the table supports into dir as PNG
// files: a correlation heatmap, a histogram and box plot per numeric
// column, and a count plot per categorical column. Returns the written
// paths. The directory must exist.
func SaveAll(t *table.Table, rep *report.Report, dir string) ([]string, error) {
	var written []string

	save := func(p *plot.Plot, name string) error {
		path := filepath.Join(dir, name)
		if err := p.Save(plotWidth, plotHeight, path); err != nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if rep != nil && rep.CorrelationMatrix != nil {
		if cm, err := rep.CorrelationMatrix.Value(); err == nil {
			p, err := CorrelationHeatmap(cm)
			if err != nil {
				return written, err
			}
			if err := save(p, "correlation_heatmap.png"); err != nil {
				return written, err
			}
		}
	}

	for _, name := range t.NumericColumns() {
		c, _ := t.Column(name)
		if len(c.NonMissingFloats()) == 0 {
			continue
		}
		p, err := Histogram(c, DefaultBins)
		if err != nil {
			return written, err
		}
		if err := save(p, "hist_"+fileSafe(name)+".png"); err != nil {
			return written, err
		}
		p, err = BoxPlot(c)
		if err != nil {
			return written, err
		}
		if err := save(p, "box_"+fileSafe(name)+".png"); err != nil {
			return written, err
		}
	}

	for _, name := range t.CategoricalColumns() {
		c, _ := t.Column(name)
		if len(c.NonMissingStrings()) == 0 {
			continue
		}
		p, err := CountPlot(c, DefaultMaxCategories)
		if err != nil {
			return written, err
		}
		if err := save(p, "counts_"+fileSafe(name)+".png"); err != nil {
			return written, err
		}
	}

	return written, nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, name)
}
