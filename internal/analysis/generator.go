package analysis

import (
	"scrub/domain/report"
	"scrub/domain/table"
)

// Generator adapts the analyzer to the ports.ReportGenerator interface
// for callers that hold a long-lived service rather than a per-table
// analyzer.
type Generator struct{}

// NewGenerator creates a report generator service.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateReport computes the data-quality report for the table.
func (g *Generator) GenerateReport(t *table.Table) *report.Report {
	return NewAnalyzer(t).GenerateReport()
}
