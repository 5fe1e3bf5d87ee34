// Package table holds the in-memory tabular dataset model: ordered named
// columns of one declared kind each, with first-class missing values.
// The table is the single input to analysis, recommendation, and every
// cleaning operation.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"scrub/domain/core"
)

// Kind is the declared semantic type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

// String returns the type name reported in basic_info.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a sequence of values of one kind. Numeric columns store
// values in Floats, categorical columns in Strings; the Missing mask is
// authoritative for both (a missing slot's payload is ignored).
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// NewNumericColumn builds a numeric column. A nil missing mask means no
// missing values.
func NewNumericColumn(name string, values []float64, missing []bool) Column {
	if missing == nil {
		missing = make([]bool, len(values))
	}
	return Column{Name: name, Kind: KindNumeric, Floats: values, Missing: missing}
}

// NewCategoricalColumn builds a categorical column. A nil missing mask
// means no missing values.
func NewCategoricalColumn(name string, values []string, missing []bool) Column {
	if missing == nil {
		missing = make([]bool, len(values))
	}
	return Column{Name: name, Kind: KindCategorical, Strings: values, Missing: missing}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Missing)
}

// IsMissing reports whether the value at row i is missing.
func (c *Column) IsMissing(i int) bool {
	return c.Missing[i]
}

// MissingCount returns the number of missing values.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// NonMissingFloats returns the present numeric values in row order.
// Only meaningful for numeric columns.
func (c *Column) NonMissingFloats() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// NonMissingStrings returns the present categorical values in row order.
func (c *Column) NonMissingStrings() []string {
	out := make([]string, 0, len(c.Strings))
	for i, v := range c.Strings {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// CellString renders the value at row i for display and export.
// Missing values render as the empty string.
func (c *Column) CellString(i int) string {
	if c.Missing[i] {
		return ""
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// cellKey renders the value at row i for row-equality comparison.
// Unlike CellString it distinguishes a missing value from an empty
// string, so nulls compare equal to nulls and to nothing else. The
// "m:"/"v:" tag keeps a missing slot distinct from any literal payload.
func (c *Column) cellKey(i int) string {
	if c.Missing[i] {
		return "m:"
	}
	if c.Kind == KindNumeric {
		return "v:" + strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return "v:" + c.Strings[i]
}

// filter keeps only the rows where keep[i] is true.
func (c *Column) filter(keep []bool) {
	w := 0
	for i := 0; i < c.Len(); i++ {
		if !keep[i] {
			continue
		}
		if c.Kind == KindNumeric {
			c.Floats[w] = c.Floats[i]
		} else {
			c.Strings[w] = c.Strings[i]
		}
		c.Missing[w] = c.Missing[i]
		w++
	}
	if c.Kind == KindNumeric {
		c.Floats = c.Floats[:w]
	} else {
		c.Strings = c.Strings[:w]
	}
	c.Missing = c.Missing[:w]
}

// clone returns a deep copy of the column.
func (c *Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	out.Missing = append([]bool(nil), c.Missing...)
	out.Floats = append([]float64(nil), c.Floats...)
	out.Strings = append([]string(nil), c.Strings...)
	return out
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// AppendColumn adds a column at the end of the column order. The column
// length must match the table's row count unless the table has no
// columns yet.
func (t *Table) AppendColumn(c Column) error {
	if _, exists := t.index[c.Name]; exists {
		return core.NewInvalidInputError(fmt.Sprintf("duplicate column name '%s'", c.Name))
	}
	if len(t.cols) > 0 && c.Len() != t.RowCount() {
		return core.NewInvalidInputError(fmt.Sprintf(
			"column '%s' has %d rows, table has %d", c.Name, c.Len(), t.RowCount()))
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if t == nil || len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// IsEmpty reports whether the table is absent or has zero rows.
func (t *Table) IsEmpty() bool {
	return t == nil || t.RowCount() == 0
}

// ColumnNames returns all column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i := range t.cols {
		names[i] = t.cols[i].Name
	}
	return names
}

// Column returns the named column, or false if it does not exist.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}

// ColumnAt returns the column at position i in table order.
func (t *Table) ColumnAt(i int) *Column {
	return &t.cols[i]
}

// NumericColumns returns the names of all numeric columns in table
// order. An empty table yields an empty list.
func (t *Table) NumericColumns() []string {
	return t.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns the names of all categorical columns in
// table order. Disjoint from NumericColumns.
func (t *Table) CategoricalColumns() []string {
	return t.columnsOfKind(KindCategorical)
}

func (t *Table) columnsOfKind(k Kind) []string {
	names := []string{}
	if t == nil {
		return names
	}
	for i := range t.cols {
		if t.cols[i].Kind == k {
			names = append(names, t.cols[i].Name)
		}
	}
	return names
}

// Filter keeps only the rows where keep[i] is true.
func (t *Table) Filter(keep []bool) error {
	if len(keep) != t.RowCount() {
		return core.NewInvalidInputError(fmt.Sprintf(
			"filter mask has %d entries, table has %d rows", len(keep), t.RowCount()))
	}
	for i := range t.cols {
		t.cols[i].filter(keep)
	}
	return nil
}

// DropColumn removes the named column.
func (t *Table) DropColumn(name string) error {
	i, ok := t.index[name]
	if !ok {
		return core.NewColumnNotFoundError(name)
	}
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.cols); j++ {
		t.index[t.cols[j].Name] = j
	}
	return nil
}

// ReplaceColumn swaps the named column for a replacement in the same
// position. The replacement keeps its own name and kind.
func (t *Table) ReplaceColumn(name string, c Column) error {
	i, ok := t.index[name]
	if !ok {
		return core.NewColumnNotFoundError(name)
	}
	if c.Len() != t.RowCount() {
		return core.NewInvalidInputError(fmt.Sprintf(
			"replacement column '%s' has %d rows, table has %d", c.Name, c.Len(), t.RowCount()))
	}
	if c.Name != name {
		if _, exists := t.index[c.Name]; exists {
			return core.NewInvalidInputError(fmt.Sprintf("duplicate column name '%s'", c.Name))
		}
		delete(t.index, name)
		t.index[c.Name] = i
	}
	t.cols[i] = c
	return nil
}

// Clone returns a deep copy of the table. Cleaning operations work on a
// clone so the caller's table survives a failed operation intact.
func (t *Table) Clone() *Table {
	out := New()
	for i := range t.cols {
		c := t.cols[i].clone()
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out
}

// RowKey serializes row i over the given columns (nil means all columns
// in table order) for duplicate detection. Missing values compare equal
// to missing values and to nothing else. Each field is length-prefixed,
// so no payload byte can shift a field boundary and make distinct rows
// collide.
func (t *Table) RowKey(i int, columns []string) (string, error) {
	var b strings.Builder
	if columns == nil {
		for j := range t.cols {
			writeKeyField(&b, t.cols[j].cellKey(i))
		}
		return b.String(), nil
	}
	for _, name := range columns {
		c, ok := t.Column(name)
		if !ok {
			return "", core.NewColumnNotFoundError(name)
		}
		writeKeyField(&b, c.cellKey(i))
	}
	return b.String(), nil
}

func writeKeyField(b *strings.Builder, field string) {
	b.WriteString(strconv.Itoa(len(field)))
	b.WriteByte(':')
	b.WriteString(field)
}

// MemoryBytes estimates the in-memory footprint of the table's values:
// 8 bytes per numeric cell, string header plus payload per categorical
// cell.
func (t *Table) MemoryBytes() int64 {
	var total int64
	for i := range t.cols {
		c := &t.cols[i]
		switch c.Kind {
		case KindNumeric:
			total += int64(8 * c.Len())
		case KindCategorical:
			for j, s := range c.Strings {
				total += 16
				if !c.Missing[j] {
					total += int64(len(s))
				}
			}
		}
		total += int64(c.Len()) // missing mask
	}
	return total
}
