// Package testkit builds deterministic fixture tables with known
// quality defects for tests and the UI demo mode.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"scrub/domain/table"
)

// DemoTable generates a passenger-manifest style dataset with the
// defects the assistant is built to surface: missing ages, a constant
// nationality column, duplicated rows, and a right-skewed fare
// distribution. Deterministic for a given seed.
func DemoTable(rows int, seed int64) *table.Table {
	rng := rand.New(rand.NewSource(seed))

	age := make([]float64, rows)
	ageMissing := make([]bool, rows)
	fare := make([]float64, rows)
	sex := make([]string, rows)
	port := make([]string, rows)
	country := make([]string, rows)

	ports := []string{"S", "C", "Q"}
	for i := 0; i < rows; i++ {
		age[i] = math.Round(20 + rng.Float64()*40)
		ageMissing[i] = rng.Float64() < 0.15
		// Log-normal-ish fares skew hard to the right.
		fare[i] = math.Round(math.Exp(2.5+rng.NormFloat64()*1.2)*100) / 100
		if rng.Float64() < 0.6 {
			sex[i] = "male"
		} else {
			sex[i] = "female"
		}
		port[i] = ports[rng.Intn(len(ports))]
		country[i] = "USA"
	}

	// Duplicate a couple of early rows at the end.
	if rows >= 4 {
		for _, pair := range [][2]int{{rows - 2, 0}, {rows - 1, 1}} {
			dst, src := pair[0], pair[1]
			age[dst], ageMissing[dst] = age[src], ageMissing[src]
			fare[dst] = fare[src]
			sex[dst], port[dst], country[dst] = sex[src], port[src], country[src]
		}
	}

	tbl := table.New()
	mustAppend(tbl, table.NewNumericColumn("age", age, ageMissing))
	mustAppend(tbl, table.NewNumericColumn("fare", fare, nil))
	mustAppend(tbl, table.NewCategoricalColumn("sex", sex, nil))
	mustAppend(tbl, table.NewCategoricalColumn("embarked", port, nil))
	mustAppend(tbl, table.NewCategoricalColumn("country", country, nil))
	return tbl
}

func mustAppend(t *table.Table, c table.Column) {
	if err := t.AppendColumn(c); err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}
}

// MixedTable builds a small fixed table with one numeric and one
// categorical column, one missing value each.
func MixedTable() *table.Table {
	tbl := table.New()
	mustAppend(tbl, table.NewNumericColumn("age",
		[]float64{22, 38, 0, 35}, []bool{false, false, true, false}))
	mustAppend(tbl, table.NewCategoricalColumn("sex",
		[]string{"male", "female", "", "male"}, []bool{false, false, true, false}))
	return tbl
}
