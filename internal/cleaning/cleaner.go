// Package cleaning implements the mutating table transforms: missing
// value handling, deduplication, outlier removal, categorical encoding,
// feature scaling, and constant-column removal. Operations validate
// their inputs and work on a copy of the table; the caller regenerates
// the data-quality report after every applied operation.
package cleaning

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"scrub/domain/core"
	"scrub/domain/table"
)

// Missing-value strategies.
const (
	StrategyMean     = "mean"
	StrategyMedian   = "median"
	StrategyMode     = "mode"
	StrategyConstant = "constant"
	StrategyDrop     = "drop"
)

// Outlier removal methods.
const (
	MethodIQR    = "iqr"
	MethodZScore = "zscore"
)

// Categorical encoding methods.
const (
	MethodLabel  = "label"
	MethodOneHot = "onehot"
)

// Feature scaling methods.
const (
	MethodStandard = "standard"
	MethodMinMax   = "minmax"
	MethodRobust   = "robust"
)

// Cleaner applies cleaning operations to a private copy of a table.
// Operations chain; Table returns the current state.
type Cleaner struct {
	t *table.Table
}

// NewCleaner creates a cleaner over a deep copy of the table.
func NewCleaner(t *table.Table) (*Cleaner, error) {
	if t.IsEmpty() {
		return nil, core.ErrEmptyTable
	}
	return &Cleaner{t: t.Clone()}, nil
}

// Table returns the cleaned table.
func (c *Cleaner) Table() *table.Table {
	return c.t
}

func (c *Cleaner) column(name string) (*table.Column, error) {
	col, ok := c.t.Column(name)
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return col, nil
}

func (c *Cleaner) numericColumn(name string) (*table.Column, error) {
	col, err := c.column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != table.KindNumeric {
		return nil, core.NewWrongColumnTypeError(name, "numeric")
	}
	return col, nil
}

func (c *Cleaner) categoricalColumn(name string) (*table.Column, error) {
	col, err := c.column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != table.KindCategorical {
		return nil, core.NewWrongColumnTypeError(name, "categorical")
	}
	return col, nil
}

// HandleMissing fills or drops missing values in one column. The mean
// and median strategies require a numeric column; constant requires a
// fill value parseable for the column's kind.
func (c *Cleaner) HandleMissing(column, strategy, fillValue string) error {
	col, err := c.column(column)
	if err != nil {
		return err
	}

	switch strategy {
	case StrategyMean, StrategyMedian:
		col, err = c.numericColumn(column)
		if err != nil {
			return err
		}
		values := col.NonMissingFloats()
		if len(values) == 0 {
			return nil // nothing to impute from
		}
		var fill float64
		if strategy == StrategyMean {
			fill, _ = stats.Mean(values)
		} else {
			fill, _ = stats.Median(values)
		}
		fillNumeric(col, fill)

	case StrategyMode:
		switch col.Kind {
		case table.KindCategorical:
			mode, ok := categoricalMode(col)
			if !ok {
				return nil
			}
			for i := range col.Strings {
				if col.Missing[i] {
					col.Strings[i] = mode
					col.Missing[i] = false
				}
			}
		case table.KindNumeric:
			mode, ok := numericMode(col)
			if !ok {
				return nil
			}
			fillNumeric(col, mode)
		}

	case StrategyConstant:
		if fillValue == "" {
			return core.NewInvalidInputError("strategy 'constant' requires a fill value")
		}
		if col.Kind == table.KindNumeric {
			v, err := strconv.ParseFloat(fillValue, 64)
			if err != nil {
				return core.NewInvalidInputError(fmt.Sprintf(
					"fill value '%s' is not numeric for column '%s'", fillValue, column))
			}
			fillNumeric(col, v)
		} else {
			for i := range col.Strings {
				if col.Missing[i] {
					col.Strings[i] = fillValue
					col.Missing[i] = false
				}
			}
		}

	case StrategyDrop:
		keep := make([]bool, col.Len())
		for i := range keep {
			keep[i] = !col.IsMissing(i)
		}
		return c.t.Filter(keep)

	default:
		return core.NewInvalidInputError(fmt.Sprintf(
			"invalid strategy '%s', choose from mean, median, mode, constant, drop", strategy))
	}
	return nil
}

func fillNumeric(col *table.Column, v float64) {
	for i := range col.Floats {
		if col.Missing[i] {
			col.Floats[i] = v
			col.Missing[i] = false
		}
	}
}

func categoricalMode(col *table.Column) (string, bool) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, v := range col.Strings {
		if col.Missing[i] {
			continue
		}
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}
	mode, freq := "", 0
	for v, n := range counts {
		if n > freq || (n == freq && firstSeen[v] < firstSeen[mode]) {
			mode, freq = v, n
		}
	}
	return mode, freq > 0
}

func numericMode(col *table.Column) (float64, bool) {
	counts := make(map[float64]int)
	firstSeen := make(map[float64]int)
	for i, v := range col.Floats {
		if col.Missing[i] {
			continue
		}
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}
	mode, freq := 0.0, 0
	for v, n := range counts {
		if n > freq || (n == freq && firstSeen[v] < firstSeen[mode]) {
			mode, freq = v, n
		}
	}
	return mode, freq > 0
}

// RemoveDuplicates drops rows that duplicate another row over the given
// columns (nil means all columns). keepLast retains the last occurrence
// instead of the first.
func (c *Cleaner) RemoveDuplicates(subset []string, keepLast bool) error {
	rows := c.t.RowCount()
	keep := make([]bool, rows)
	seen := make(map[string]bool, rows)

	order := make([]int, rows)
	for i := range order {
		if keepLast {
			order[i] = rows - 1 - i
		} else {
			order[i] = i
		}
	}
	for _, i := range order {
		key, err := c.t.RowKey(i, subset)
		if err != nil {
			return err
		}
		if !seen[key] {
			seen[key] = true
			keep[i] = true
		}
	}
	return c.t.Filter(keep)
}

// RemoveOutliers drops rows whose value in the column falls outside the
// method's bounds: IQR keeps [Q1-1.5*IQR, Q3+1.5*IQR], zscore keeps
// |z| < 3. Rows with a missing value in the column are dropped too, as
// they satisfy neither bound.
func (c *Cleaner) RemoveOutliers(column, method string) error {
	col, err := c.numericColumn(column)
	if err != nil {
		return err
	}
	values := col.NonMissingFloats()
	if len(values) == 0 {
		return core.NewInvalidInputError(fmt.Sprintf("column '%s' has no values to bound", column))
	}

	var inBounds func(v float64) bool
	switch method {
	case MethodIQR:
		q, err := stats.Quartile(values)
		if err != nil {
			return core.NewInvalidInputError(fmt.Sprintf("cannot compute quartiles for '%s'", column))
		}
		iqr := q.Q3 - q.Q1
		lower, upper := q.Q1-1.5*iqr, q.Q3+1.5*iqr
		inBounds = func(v float64) bool { return v >= lower && v <= upper }

	case MethodZScore:
		mean, _ := stats.Mean(values)
		std, err := stats.StandardDeviationSample(values)
		if err != nil || std == 0 {
			return core.NewInvalidInputError(fmt.Sprintf("cannot compute z-scores for '%s'", column))
		}
		inBounds = func(v float64) bool { return math.Abs((v-mean)/std) < 3 }

	default:
		return core.NewInvalidInputError(fmt.Sprintf(
			"invalid method '%s', choose from iqr, zscore", method))
	}

	keep := make([]bool, col.Len())
	for i := range keep {
		keep[i] = !col.IsMissing(i) && inBounds(col.Floats[i])
	}
	return c.t.Filter(keep)
}

// EncodeCategorical converts a categorical column to numeric form.
// Label encoding maps the sorted distinct values to integer codes in
// place; one-hot appends a 0/1 column per category (first category
// dropped) and removes the original.
func (c *Cleaner) EncodeCategorical(column, method string) error {
	col, err := c.categoricalColumn(column)
	if err != nil {
		return err
	}

	categories := sortedCategories(col)

	switch method {
	case MethodLabel:
		codes := make(map[string]float64, len(categories))
		for i, v := range categories {
			codes[v] = float64(i)
		}
		encoded := table.NewNumericColumn(column, make([]float64, col.Len()), append([]bool(nil), col.Missing...))
		for i, v := range col.Strings {
			if !col.Missing[i] {
				encoded.Floats[i] = codes[v]
			}
		}
		return c.t.ReplaceColumn(column, encoded)

	case MethodOneHot:
		if len(categories) > 0 {
			categories = categories[1:] // drop the first level
		}
		rows := col.Len()
		for _, cat := range categories {
			dummy := make([]float64, rows)
			for i, v := range col.Strings {
				if !col.Missing[i] && v == cat {
					dummy[i] = 1
				}
			}
			name := fmt.Sprintf("%s_%s", column, cat)
			if err := c.t.AppendColumn(table.NewNumericColumn(name, dummy, nil)); err != nil {
				return err
			}
		}
		return c.t.DropColumn(column)

	default:
		return core.NewInvalidInputError(fmt.Sprintf(
			"invalid method '%s', choose from label, onehot", method))
	}
}

func sortedCategories(col *table.Column) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i, v := range col.Strings {
		if col.Missing[i] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ScaleFeatures rescales numeric columns in place: standard is
// (x-mean)/std over the population, minmax maps onto [0,1], robust is
// (x-median)/IQR. Missing values stay missing.
func (c *Cleaner) ScaleFeatures(columns []string, method string) error {
	if len(columns) == 0 {
		return core.NewInvalidInputError("no columns given to scale")
	}
	cols := make([]*table.Column, 0, len(columns))
	for _, name := range columns {
		col, err := c.numericColumn(name)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}

	for _, col := range cols {
		values := col.NonMissingFloats()
		if len(values) == 0 {
			continue
		}

		var center, scale float64
		switch method {
		case MethodStandard:
			center, _ = stats.Mean(values)
			scale, _ = stats.StandardDeviation(values)
		case MethodMinMax:
			min, _ := stats.Min(values)
			max, _ := stats.Max(values)
			center, scale = min, max-min
		case MethodRobust:
			q, err := stats.Quartile(values)
			if err != nil {
				return core.NewInvalidInputError(fmt.Sprintf("cannot compute quartiles for '%s'", col.Name))
			}
			center, scale = q.Q2, q.Q3-q.Q1
		default:
			return core.NewInvalidInputError(fmt.Sprintf(
				"invalid method '%s', choose from standard, minmax, robust", method))
		}

		if scale == 0 {
			scale = 1 // constant column: center only
		}
		for i := range col.Floats {
			if !col.Missing[i] {
				col.Floats[i] = (col.Floats[i] - center) / scale
			}
		}
	}
	return nil
}

// DropConstantColumns removes every column with at most one distinct
// value, missing counted as a value of its own. Returns the dropped
// column names in table order.
func (c *Cleaner) DropConstantColumns() ([]string, error) {
	dropped := []string{}
	for _, name := range c.t.ColumnNames() {
		col, _ := c.t.Column(name)
		if distinctWithMissing(col) <= 1 {
			if err := c.t.DropColumn(name); err != nil {
				return dropped, err
			}
			dropped = append(dropped, name)
		}
	}
	return dropped, nil
}

func distinctWithMissing(col *table.Column) int {
	seen := make(map[string]bool)
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			seen["\x00null"] = true
		} else {
			seen[col.CellString(i)] = true
		}
	}
	return len(seen)
}
