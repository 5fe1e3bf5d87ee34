package recommend

import (
	"reflect"
	"strings"
	"testing"

	"scrub/domain/core"
	"scrub/domain/report"
)

func fullReport() *report.Report {
	return &report.Report{
		BasicInfo:          report.Ok(report.BasicInfo{Rows: 10, Columns: 2}),
		MissingSummary:     report.Ok(report.MissingSummary{}),
		DuplicateSummary:   report.Ok(report.DuplicateSummary{}),
		NumericSummary:     report.Ok(report.NumericSummary{}),
		CategoricalSummary: report.Ok(report.CategoricalSummary{}),
		CorrelationMatrix:  report.Ok(report.CorrelationMatrix{}),
	}
}

func TestGenerateSuggestions_MissingThresholdBuckets(t *testing.T) {
	cases := []struct {
		percent float64
		want    string
	}{
		{0, "no missing values"},
		{0.01, "minor missing values"},
		{5.0, "minor missing values"}, // closed upper bound
		{5.01, "moderate missing values"},
		{30.0, "moderate missing values"}, // closed upper bound
		{30.01, "high missing values"},
		{99.5, "high missing values"},
	}

	engine := NewEngine()
	for _, tc := range cases {
		r := fullReport()
		r.MissingSummary = report.Ok(report.MissingSummary{
			{Column: "col", MissingCount: 1, MissingPercent: tc.percent},
		})
		got, err := engine.GenerateSuggestions(r)
		if err != nil {
			t.Fatalf("percent %v: %v", tc.percent, err)
		}
		if len(got) != 1 || !strings.Contains(got[0], tc.want) {
			t.Errorf("percent %v: suggestions = %v, want one containing %q", tc.percent, got, tc.want)
		}
		if !strings.Contains(got[0], "'col'") {
			t.Errorf("percent %v: suggestion does not embed column name: %q", tc.percent, got[0])
		}
	}
}

func TestGenerateSuggestions_CleanTable(t *testing.T) {
	r := fullReport()
	r.MissingSummary = report.Ok(report.MissingSummary{
		{Column: "A"}, {Column: "B"},
	})
	r.NumericSummary = report.Ok(report.NumericSummary{
		{Column: "A", Skew: 0, Kurtosis: -1.2},
		{Column: "B", Skew: 0, Kurtosis: -1.2},
	})

	got, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("suggestions = %v, want exactly two no-action entries", got)
	}
	for _, s := range got {
		if !strings.Contains(s, "no action needed") {
			t.Errorf("unexpected suggestion for clean table: %q", s)
		}
	}
}

func TestGenerateSuggestions_Duplicates(t *testing.T) {
	r := fullReport()
	r.DuplicateSummary = report.Ok(report.DuplicateSummary{DuplicateRows: 2})

	got, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "2 duplicate rows") {
		t.Errorf("suggestions = %v, want one embedding \"2 duplicate rows\"", got)
	}
}

func TestGenerateSuggestions_Cardinality(t *testing.T) {
	r := fullReport()
	r.CategoricalSummary = report.Ok(report.CategoricalSummary{
		{Column: "Country", Nunique: 1, Mode: "USA", Freq: 10},
		{Column: "City", Nunique: 51, Mode: "Rome", Freq: 3},
		{Column: "Port", Nunique: 3, Mode: "S", Freq: 5},
	})

	got, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("suggestions = %v, want two", got)
	}
	if !strings.Contains(got[0], "'Country'") || !strings.Contains(got[0], "has only 1 unique value") {
		t.Errorf("constant-column suggestion = %q", got[0])
	}
	if !strings.Contains(got[1], "'City'") || !strings.Contains(got[1], "high cardinality (51 unique values)") {
		t.Errorf("high-cardinality suggestion = %q", got[1])
	}
}

func TestGenerateSuggestions_SkewAndKurtosis(t *testing.T) {
	r := fullReport()
	r.NumericSummary = report.Ok(report.NumericSummary{
		{Column: "Salary", Skew: 4, Kurtosis: 0},
		{Column: "Age", Skew: 1.5, Kurtosis: 0},
		{Column: "Fare", Skew: -3.5, Kurtosis: 5.25},
	})

	got, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}

	want := []string{
		"Column 'Salary' is highly skewed (Skew: 4.00). Consider Box-Cox transformation.",
		"Column 'Age' is moderately skewed (Skew: 1.50). Consider log or square root transformation.",
		"Column 'Fare' is highly skewed (Skew: 3.50). Consider Box-Cox transformation.",
		"Column 'Fare' has high kurtosis (Kurtosis: 5.25). Consider handling potential outliers.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestGenerateSuggestions_UndefinedMomentsTriggerNothing(t *testing.T) {
	r := fullReport()
	r.NumericSummary = report.Ok(report.NumericSummary{
		{Column: "tiny", Skew: report.Undefined(), Kurtosis: report.Undefined()},
	})

	got, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("suggestions = %v, want none", got)
	}
}

func TestGenerateSuggestions_InvalidReport(t *testing.T) {
	engine := NewEngine()

	if _, err := engine.GenerateSuggestions(nil); !core.IsInvalidReportError(err) {
		t.Errorf("nil report error = %v, want InvalidReport", err)
	}

	r := fullReport()
	r.NumericSummary = nil
	got, err := engine.GenerateSuggestions(r)
	if !core.IsInvalidReportError(err) {
		t.Errorf("missing numeric_summary error = %v, want InvalidReport", err)
	}
	if got != nil {
		t.Errorf("partial output %v returned alongside InvalidReport", got)
	}
}

func TestGenerateSuggestions_DegradedSectionsAreSkipped(t *testing.T) {
	r := fullReport()
	r.MissingSummary = report.Ok(report.MissingSummary{{Column: "country"}})
	r.NumericSummary = report.Fail[report.NumericSummary](core.ErrNoNumericColumns)
	r.CorrelationMatrix = report.Fail[report.CorrelationMatrix](core.ErrNoNumericColumns)

	got, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions on degraded report: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "no action needed") {
		t.Errorf("suggestions = %v, want only the missing-value entry", got)
	}
}

func TestGenerateSuggestions_PureAndOrdered(t *testing.T) {
	r := fullReport()
	r.MissingSummary = report.Ok(report.MissingSummary{
		{Column: "a", MissingPercent: 12},
		{Column: "b", MissingPercent: 0},
	})
	r.DuplicateSummary = report.Ok(report.DuplicateSummary{DuplicateRows: 3})
	r.CategoricalSummary = report.Ok(report.CategoricalSummary{{Column: "c", Nunique: 1}})
	r.NumericSummary = report.Ok(report.NumericSummary{{Column: "a", Skew: 2, Kurtosis: 9}})

	first, err := NewEngine().GenerateSuggestions(r)
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}
	second, _ := NewEngine().GenerateSuggestions(r)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated runs on the same report differ")
	}

	// Ordering: missing (column order) -> duplicates -> categorical ->
	// numeric skew then kurtosis.
	if len(first) != 6 {
		t.Fatalf("suggestions = %v, want six", first)
	}
	checks := []string{"moderate missing", "no missing values", "duplicate rows",
		"only 1 unique value", "moderately skewed", "high kurtosis"}
	for i, substr := range checks {
		if !strings.Contains(first[i], substr) {
			t.Errorf("suggestion[%d] = %q, want %q entry", i, first[i], substr)
		}
	}
}
