package ports

import (
	"scrub/domain/report"
	"scrub/domain/table"
)

// ReportGenerator computes a data-quality report from a table. The
// report is a pure function of the table contents; callers regenerate
// it after every table mutation.
type ReportGenerator interface {
	GenerateReport(t *table.Table) *report.Report
}

// SuggestionEngine derives ordered cleaning suggestions from a report.
type SuggestionEngine interface {
	GenerateSuggestions(r *report.Report) ([]string, error)
}

// CleaningOp names one cleaning operation.
type CleaningOp string

const (
	OpHandleMissing       CleaningOp = "handle_missing"
	OpRemoveDuplicates    CleaningOp = "remove_duplicates"
	OpRemoveOutliers      CleaningOp = "remove_outliers"
	OpEncodeCategorical   CleaningOp = "encode_categorical"
	OpScaleFeatures       CleaningOp = "scale_features"
	OpDropConstantColumns CleaningOp = "drop_constant_columns"
)

// CleaningRequest parameterizes one cleaning operation. Which fields
// apply depends on the operation.
type CleaningRequest struct {
	Op        CleaningOp
	Column    string   // handle_missing, remove_outliers, encode_categorical
	Columns   []string // scale_features, remove_duplicates subset (optional)
	Strategy  string   // handle_missing
	Method    string   // remove_outliers, encode_categorical, scale_features
	FillValue string   // handle_missing with the constant strategy
	KeepLast  bool     // remove_duplicates
}

// TableCleaner applies a named cleaning operation and returns the
// transformed table, leaving the input untouched.
type TableCleaner interface {
	Apply(t *table.Table, req CleaningRequest) (*table.Table, error)
}
