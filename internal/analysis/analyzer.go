// Package analysis computes the data-quality report: six independent
// summaries assembled into one report structure, each guarded so a
// failing summary degrades to a per-section error marker instead of
// aborting the whole report.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"scrub/domain/core"
	"scrub/domain/report"
	"scrub/domain/table"
)

// Analyzer computes data-quality summaries over one table. The table is
// not retained across cleaning operations; callers build a fresh
// analyzer (or call GenerateReport again) after every mutation.
type Analyzer struct {
	table *table.Table
}

// NewAnalyzer creates an analyzer for the given table.
func NewAnalyzer(t *table.Table) *Analyzer {
	return &Analyzer{table: t}
}

// GenerateReport builds the table's data-quality report. It generates
// the moment statistics, missingness, duplicates, categorical frequency
// stats, and pairwise correlation for the given table.
// Convenience wrapper over Analyzer for one-shot callers.
func GenerateReport(t *table.Table) *report.Report {
	return NewAnalyzer(t).GenerateReport()
}

// BasicInfo reports the table shape, per-column declared type names,
// and the estimated memory footprint formatted with two decimals.
func (a *Analyzer) BasicInfo() (report.BasicInfo, error) {
	if a.table.IsEmpty() || a.table.ColumnCount() == 0 {
		return report.BasicInfo{}, core.ErrEmptyTable
	}

	dtypes := make([]report.ColumnType, a.table.ColumnCount())
	for i := 0; i < a.table.ColumnCount(); i++ {
		c := a.table.ColumnAt(i)
		dtypes[i] = report.ColumnType{Column: c.Name, Type: c.Kind.String()}
	}

	return report.BasicInfo{
		Rows:    a.table.RowCount(),
		Columns: a.table.ColumnCount(),
		DTypes:  dtypes,
		Memory:  fmt.Sprintf("%.2f MB", float64(a.table.MemoryBytes())/(1024*1024)),
	}, nil
}

// MissingSummary counts missing values per column, for every column,
// with the percentage of total rows rounded to two decimals.
func (a *Analyzer) MissingSummary() (report.MissingSummary, error) {
	if a.table.IsEmpty() {
		return nil, core.ErrEmptyTable
	}

	rows := float64(a.table.RowCount())
	out := make(report.MissingSummary, 0, a.table.ColumnCount())
	for i := 0; i < a.table.ColumnCount(); i++ {
		c := a.table.ColumnAt(i)
		count := c.MissingCount()
		percent := math.Round(float64(count)/rows*100*100) / 100
		out = append(out, report.ColumnMissing{
			Column:         c.Name,
			MissingCount:   count,
			MissingPercent: percent,
		})
	}
	return out, nil
}

// DuplicateSummary counts rows that are exact duplicates of an earlier
// row, all columns considered, with missing values comparing equal to
// missing values.
func (a *Analyzer) DuplicateSummary() (report.DuplicateSummary, error) {
	if a.table == nil {
		return report.DuplicateSummary{}, core.ErrEmptyTable
	}

	seen := make(map[string]bool, a.table.RowCount())
	duplicates := 0
	for i := 0; i < a.table.RowCount(); i++ {
		key, err := a.table.RowKey(i, nil)
		if err != nil {
			return report.DuplicateSummary{}, err
		}
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}
	return report.DuplicateSummary{DuplicateRows: duplicates}, nil
}

// NumericSummary computes mean, median, sample standard deviation,
// skewness, and excess kurtosis per numeric column. Columns with too
// few non-missing values carry the undefined sentinel per statistic.
func (a *Analyzer) NumericSummary() (report.NumericSummary, error) {
	if a.table.IsEmpty() {
		return nil, core.ErrEmptyTable
	}
	names := a.table.NumericColumns()
	if len(names) == 0 {
		return nil, core.ErrNoNumericColumns
	}

	out := make(report.NumericSummary, 0, len(names))
	for _, name := range names {
		c, _ := a.table.Column(name)
		values := c.NonMissingFloats()
		out = append(out, report.ColumnMoments{
			Column:   name,
			Mean:     meanStat(values),
			Median:   medianStat(values),
			StdDev:   sampleStd(values),
			Skew:     skewness(values),
			Kurtosis: kurtosis(values),
		})
	}
	return out, nil
}

// CategoricalSummary computes distinct-value count (excluding missing),
// the most frequent value, and that value's occurrence count per
// categorical column. Frequency ties break toward the value first
// encountered in row order. Entirely missing columns report mode "none"
// and freq 0.
func (a *Analyzer) CategoricalSummary() (report.CategoricalSummary, error) {
	if a.table.IsEmpty() {
		return nil, core.ErrEmptyTable
	}
	names := a.table.CategoricalColumns()
	if len(names) == 0 {
		return nil, core.ErrNoCategoricalColumns
	}

	out := make(report.CategoricalSummary, 0, len(names))
	for _, name := range names {
		c, _ := a.table.Column(name)
		mode, freq, nunique := modeOf(c)
		out = append(out, report.ColumnCategorical{
			Column:  name,
			Nunique: nunique,
			Mode:    mode,
			Freq:    freq,
		})
	}
	return out, nil
}

// modeOf returns the most frequent non-missing value, its count, and
// the number of distinct non-missing values.
func modeOf(c *table.Column) (mode string, freq, nunique int) {
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
		return "none", 0, 0
	}

	for v, n := range counts {
		if n > freq || (n == freq && firstSeen[v] < firstSeen[mode]) {
			mode, freq = v, n
		}
	}
	return mode, freq, len(counts)
}

// CorrelationMatrix computes pairwise Pearson correlation over the
// numeric columns. Each pair uses only the rows where both values are
// present; pairs with fewer than two complete rows or zero variance are
// undefined.
func (a *Analyzer) CorrelationMatrix() (report.CorrelationMatrix, error) {
	if a.table.IsEmpty() {
		return report.CorrelationMatrix{}, core.ErrEmptyTable
	}
	names := a.table.NumericColumns()
	if len(names) == 0 {
		return report.CorrelationMatrix{}, core.ErrNoNumericColumns
	}

	coeffs := make([][]report.Stat, len(names))
	for i := range names {
		coeffs[i] = make([]report.Stat, len(names))
		for j := range names {
			if j < i {
				coeffs[i][j] = coeffs[j][i]
				continue
			}
			ci, _ := a.table.Column(names[i])
			cj, _ := a.table.Column(names[j])
			coeffs[i][j] = pairwisePearson(ci, cj)
		}
	}
	return report.CorrelationMatrix{Columns: names, Coeffs: coeffs}, nil
}

// pairwisePearson correlates two columns over their pairwise-complete
// rows.
func pairwisePearson(a, b *table.Column) report.Stat {
	xs := make([]float64, 0, a.Len())
	ys := make([]float64, 0, b.Len())
	for i := 0; i < a.Len(); i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		xs = append(xs, a.Floats[i])
		ys = append(ys, b.Floats[i])
	}
	if len(xs) < 2 {
		return report.Undefined()
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return report.Undefined()
	}
	return report.Stat(r)
}

// GenerateReport invokes all six summaries and assembles the report.
// Individual summary failures are recorded as per-section error markers
// so a malformed dataset still yields a usable partial report; the
// result always carries all six sections for any table input, including
// an absent or zero-row one.
func (a *Analyzer) GenerateReport() *report.Report {
	if a.table.IsEmpty() {
		// Entry guard: nothing row-relative can be computed.
		return &report.Report{
			BasicInfo:          report.Fail[report.BasicInfo](core.ErrEmptyTable),
			MissingSummary:     report.Fail[report.MissingSummary](core.ErrEmptyTable),
			DuplicateSummary:   report.Fail[report.DuplicateSummary](core.ErrEmptyTable),
			NumericSummary:     report.Fail[report.NumericSummary](core.ErrEmptyTable),
			CategoricalSummary: report.Fail[report.CategoricalSummary](core.ErrEmptyTable),
			CorrelationMatrix:  report.Fail[report.CorrelationMatrix](core.ErrEmptyTable),
		}
	}

	return &report.Report{
		BasicInfo:          section(a.BasicInfo),
		MissingSummary:     section(a.MissingSummary),
		DuplicateSummary:   section(a.DuplicateSummary),
		NumericSummary:     section(a.NumericSummary),
		CategoricalSummary: section(a.CategoricalSummary),
		CorrelationMatrix:  section(a.CorrelationMatrix),
	}
}

func section[T any](compute func() (T, error)) *report.Section[T] {
	v, err := compute()
	if err != nil {
		return report.Fail[T](err)
	}
	return report.Ok(v)
}
