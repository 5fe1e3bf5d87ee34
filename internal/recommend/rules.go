package recommend

import "fmt"

// Threshold rules, evaluated top to bottom per signal; the first
// matching rule wins. Suggestion text embeds the column name and the
// signal value, and downstream display grouping keys off substrings of
// these strings, so the wording is part of the interface contract.

type rule struct {
	match  func(v float64) bool
	render func(column string, v float64) string
}

func evalRules(rules []rule, column string, v float64) (string, bool) {
	for _, r := range rules {
		if r.match(v) {
			return r.render(column, v), true
		}
	}
	return "", false
}

// Missing-value rules: the catch-all makes this the one signal that
// emits exactly one suggestion per column.
var missingRules = []rule{
	{
		match: func(v float64) bool { return v > 30 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has high missing values (%.1f%%). Consider dropping the column or using domain-specific imputation.", column, v)
		},
	},
	{
		match: func(v float64) bool { return v > 5 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has moderate missing values (%.1f%%). Consider advanced imputation (e.g., KNN, regression).", column, v)
		},
	},
	{
		match: func(v float64) bool { return v > 0 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has minor missing values (%.1f%%). Consider imputing with mean/median/mode.", column, v)
		},
	},
	{
		match: func(v float64) bool { return true },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has no missing values - no action needed.", column)
		},
	},
}

// Categorical cardinality rules: conditional, at most one per column.
var cardinalityRules = []rule{
	{
		match: func(v float64) bool { return v > 50 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has high cardinality (%d unique values). Avoid OneHot encoding.", column, int(v))
		},
	},
	{
		match: func(v float64) bool { return v == 1 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has only 1 unique value. Consider dropping it.", column)
		},
	},
}

// Skew rules apply to the absolute skewness.
var skewRules = []rule{
	{
		match: func(v float64) bool { return v > 3 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' is highly skewed (Skew: %.2f). Consider Box-Cox transformation.", column, v)
		},
	},
	{
		match: func(v float64) bool { return v > 1 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' is moderately skewed (Skew: %.2f). Consider log or square root transformation.", column, v)
		},
	},
}

// Kurtosis rules apply to the excess kurtosis, independently of skew.
var kurtosisRules = []rule{
	{
		match: func(v float64) bool { return v > 3 },
		render: func(column string, v float64) string {
			return fmt.Sprintf("Column '%s' has high kurtosis (Kurtosis: %.2f). Consider handling potential outliers.", column, v)
		},
	},
}

func duplicateSuggestion(count int) string {
	return fmt.Sprintf("Data contains %d duplicate rows. Consider removing them.", count)
}
