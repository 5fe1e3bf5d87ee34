// Package recommend maps a data-quality report to an ordered list of
// human-readable cleaning suggestions via fixed threshold rules.
package recommend

import (
	"math"

	"scrub/domain/core"
	"scrub/domain/report"
)

// Engine derives cleaning suggestions from a report. It is stateless; a
// suggestion list is a pure function of the report passed in.
type Engine struct{}

// NewEngine creates a recommendation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// GenerateSuggestions returns the ordered suggestion list for the
// report: missing-value suggestions per column, then duplicates, then
// categorical cardinality, then numeric skew and kurtosis. A report
// that was not fully assembled by the generator (any consumed section
// never populated) is a programming error and fails immediately with
// ErrInvalidReport; a section carrying a downgraded computation error
// is treated as empty so partial reports still produce output.
func (e *Engine) GenerateSuggestions(r *report.Report) ([]string, error) {
	if err := validateReport(r); err != nil {
		return nil, err
	}

	suggestions := []string{}

	if missing, err := r.MissingSummary.Value(); err == nil {
		for _, cm := range missing {
			// The catch-all rule guarantees one suggestion per column.
			s, _ := evalRules(missingRules, cm.Column, cm.MissingPercent)
			suggestions = append(suggestions, s)
		}
	}

	if dup, err := r.DuplicateSummary.Value(); err == nil && dup.DuplicateRows > 0 {
		suggestions = append(suggestions, duplicateSuggestion(dup.DuplicateRows))
	}

	if categorical, err := r.CategoricalSummary.Value(); err == nil {
		for _, cc := range categorical {
			if s, ok := evalRules(cardinalityRules, cc.Column, float64(cc.Nunique)); ok {
				suggestions = append(suggestions, s)
			}
		}
	}

	if numeric, err := r.NumericSummary.Value(); err == nil {
		for _, cm := range numeric {
			// Skew and kurtosis checks are independent; a column may
			// trigger both. Undefined statistics trigger neither.
			if !cm.Skew.IsUndefined() {
				if s, ok := evalRules(skewRules, cm.Column, math.Abs(float64(cm.Skew))); ok {
					suggestions = append(suggestions, s)
				}
			}
			if !cm.Kurtosis.IsUndefined() {
				if s, ok := evalRules(kurtosisRules, cm.Column, float64(cm.Kurtosis)); ok {
					suggestions = append(suggestions, s)
				}
			}
		}
	}

	return suggestions, nil
}

// validateReport rejects structurally invalid input: a nil report, or
// one where any consumed section was never populated.
func validateReport(r *report.Report) error {
	if r == nil {
		return core.NewInvalidReportError("report must be a structured report, not nil")
	}
	required := []struct {
		name    string
		present bool
	}{
		{report.SectionMissingSummary, r.MissingSummary != nil},
		{report.SectionDuplicateSummary, r.DuplicateSummary != nil},
		{report.SectionCategoricalSummary, r.CategoricalSummary != nil},
		{report.SectionNumericSummary, r.NumericSummary != nil},
	}
	for _, req := range required {
		if !req.present {
			return core.NewInvalidReportError("missing expected section '" + req.name + "'")
		}
	}
	return nil
}
