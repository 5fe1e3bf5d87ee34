// Package report defines the data-quality report: a tagged record with
// six named sections, each independently computable and independently
// failable. Section names and JSON keys are an interface contract with
// the presentation layer and must not be renamed without updating it.
package report

import (
	"encoding/json"
	"math"
)

// Section name constants. The UI keys off these to choose a rendering
// strategy per section.
const (
	SectionBasicInfo          = "basic_info"
	SectionMissingSummary     = "missing_summary"
	SectionDuplicateSummary   = "duplicate_summary"
	SectionNumericSummary     = "numeric_summary"
	SectionCategoricalSummary = "categorical_summary"
	SectionCorrelationMatrix  = "correlation_matrix"
)

// SectionNames lists all six required sections in report order.
var SectionNames = []string{
	SectionBasicInfo,
	SectionMissingSummary,
	SectionDuplicateSummary,
	SectionNumericSummary,
	SectionCategoricalSummary,
	SectionCorrelationMatrix,
}

// Stat is a floating point statistic that may be undefined (columns
// with too few observations, zero variance). Undefined values marshal
// as JSON null.
type Stat float64

// Undefined returns the undefined statistic sentinel.
func Undefined() Stat {
	return Stat(math.NaN())
}

// IsUndefined reports whether the statistic has no defined value.
func (s Stat) IsUndefined() bool {
	f := float64(s)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// MarshalJSON renders undefined statistics as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if s.IsUndefined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(s))
}

// Section holds either a computed section value or the error that
// prevented its computation. A failing section never aborts report
// generation; it is carried as the error variant.
type Section[T any] struct {
	value T
	err   error
}

// Ok wraps a successfully computed section value.
func Ok[T any](v T) *Section[T] {
	return &Section[T]{value: v}
}

// Fail wraps a section computation failure.
func Fail[T any](err error) *Section[T] {
	return &Section[T]{err: err}
}

// Value returns the section value, or the computation error.
func (s *Section[T]) Value() (T, error) {
	return s.value, s.err
}

// Err returns the computation error, nil on success.
func (s *Section[T]) Err() error {
	return s.err
}

// OK reports whether the section computed successfully.
func (s *Section[T]) OK() bool {
	return s.err == nil
}

// MarshalJSON renders the section value, or an error marker object for
// failed sections.
func (s *Section[T]) MarshalJSON() ([]byte, error) {
	if s.err != nil {
		return json.Marshal(map[string]string{"error": s.err.Error()})
	}
	return json.Marshal(s.value)
}

// BasicInfo reports table shape, per-column declared type names, and an
// estimated memory footprint formatted as "X.XX MB".
type BasicInfo struct {
	Rows    int          `json:"rows"`
	Columns int          `json:"columns"`
	DTypes  []ColumnType `json:"dtypes"`
	Memory  string       `json:"memory"`
}

// ColumnType pairs a column with its declared type name.
type ColumnType struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

// ColumnMissing summarizes missing values for one column.
type ColumnMissing struct {
	Column         string  `json:"column"`
	MissingCount   int     `json:"missing_count"`
	MissingPercent float64 `json:"missing_percent"`
}

// MissingSummary holds one entry per table column, in column order.
type MissingSummary []ColumnMissing

// DuplicateSummary counts rows that exactly duplicate an earlier row.
type DuplicateSummary struct {
	DuplicateRows int `json:"duplicate_rows"`
}

// ColumnMoments holds the five per-column numeric statistics.
type ColumnMoments struct {
	Column   string
	Mean     Stat
	Median   Stat
	StdDev   Stat
	Skew     Stat
	Kurtosis Stat
}

// NumericSummary holds moments per numeric column, in column order.
type NumericSummary []ColumnMoments

// StatNames lists the numeric summary statistics in report row order.
var StatNames = []string{"mean", "median", "std", "skew", "kurtosis"}

// StatRow returns the named statistic for every column, keyed by column
// name. Together with StatNames this gives the statistic-then-column
// orientation (stats as rows).
func (n NumericSummary) StatRow(stat string) map[string]Stat {
	row := make(map[string]Stat, len(n))
	for _, m := range n {
		switch stat {
		case "mean":
			row[m.Column] = m.Mean
		case "median":
			row[m.Column] = m.Median
		case "std":
			row[m.Column] = m.StdDev
		case "skew":
			row[m.Column] = m.Skew
		case "kurtosis":
			row[m.Column] = m.Kurtosis
		}
	}
	return row
}

// MarshalJSON emits the summary keyed statistic-then-column.
func (n NumericSummary) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]Stat, len(StatNames))
	for _, stat := range StatNames {
		out[stat] = n.StatRow(stat)
	}
	return json.Marshal(out)
}

// ColumnCategorical summarizes one categorical column: distinct
// non-missing values, the most frequent value, and its count. An
// entirely missing column reports Mode "none" and Freq 0.
type ColumnCategorical struct {
	Column  string `json:"column"`
	Nunique int    `json:"nunique"`
	Mode    string `json:"mode"`
	Freq    int    `json:"freq"`
}

// CategoricalSummary holds one entry per categorical column, in column
// order.
type CategoricalSummary []ColumnCategorical

// CorrelationMatrix is the square pairwise Pearson correlation over the
// numeric columns, pairwise-complete.
type CorrelationMatrix struct {
	Columns []string `json:"columns"`
	Coeffs  [][]Stat `json:"coefficients"`
}

// At returns the correlation between two columns by name.
func (m *CorrelationMatrix) At(a, b string) (Stat, bool) {
	ai, bi := -1, -1
	for i, name := range m.Columns {
		if name == a {
			ai = i
		}
		if name == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return Undefined(), false
	}
	return m.Coeffs[ai][bi], true
}

// Report is the complete data-quality report. Every field is set by the
// generator, as a value or an error variant; a nil field means the
// report was not produced by the generator and is structurally invalid
// for the recommendation engine.
type Report struct {
	BasicInfo          *Section[BasicInfo]          `json:"basic_info"`
	MissingSummary     *Section[MissingSummary]     `json:"missing_summary"`
	DuplicateSummary   *Section[DuplicateSummary]   `json:"duplicate_summary"`
	NumericSummary     *Section[NumericSummary]     `json:"numeric_summary"`
	CategoricalSummary *Section[CategoricalSummary] `json:"categorical_summary"`
	CorrelationMatrix  *Section[CorrelationMatrix]  `json:"correlation_matrix"`
}

// Complete reports whether all six sections are present (as values or
// error variants).
func (r *Report) Complete() bool {
	return r != nil &&
		r.BasicInfo != nil &&
		r.MissingSummary != nil &&
		r.DuplicateSummary != nil &&
		r.NumericSummary != nil &&
		r.CategoricalSummary != nil &&
		r.CorrelationMatrix != nil
}
