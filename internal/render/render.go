// Package render formats reports and suggestions for presentation: a
// markdown rendering of each report section, severity grouping of
// suggestion text, and HTML conversion for the web UI. It has no
// decision logic; it keys off the report section names and suggestion
// substrings that form the presentation contract.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"scrub/domain/report"
)

// Severity is the display category of one suggestion, inferred from the
// keyword embedded in its text.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// Categorize infers the display severity of a suggestion from its
// wording.
func Categorize(suggestion string) Severity {
	switch {
	case strings.Contains(suggestion, "no action needed"):
		return SeverityOK
	case strings.Contains(suggestion, "minor missing"):
		return SeverityMinor
	case strings.Contains(suggestion, "high missing"),
		strings.Contains(suggestion, "highly skewed"),
		strings.Contains(suggestion, "high cardinality"),
		strings.Contains(suggestion, "high kurtosis"),
		strings.Contains(suggestion, "only 1 unique value"):
		return SeverityHigh
	default:
		// moderate missing, moderately skewed, duplicate rows
		return SeverityModerate
	}
}

// GroupBySeverity splits a suggestion list into display buckets,
// preserving order within each bucket.
func GroupBySeverity(suggestions []string) map[Severity][]string {
	groups := make(map[Severity][]string)
	for _, s := range suggestions {
		sev := Categorize(s)
		groups[sev] = append(groups[sev], s)
	}
	return groups
}

// sectionTitles maps report section names to display headings.
var sectionTitles = map[string]string{
	report.SectionBasicInfo:          "Basic Info",
	report.SectionMissingSummary:     "Missing Values",
	report.SectionDuplicateSummary:   "Duplicates",
	report.SectionNumericSummary:     "Numeric Summary",
	report.SectionCategoricalSummary: "Categorical Summary",
	report.SectionCorrelationMatrix:  "Correlation Matrix",
}

// ReportMarkdown renders the full report as markdown, one section per
// report key. Failed sections render as a note instead of a table.
func ReportMarkdown(r *report.Report) string {
	var b strings.Builder
	b.WriteString("# Data Quality Report\n\n")

	writeSection(&b, report.SectionBasicInfo, r.BasicInfo, basicInfoMarkdown)
	writeSection(&b, report.SectionMissingSummary, r.MissingSummary, missingMarkdown)
	writeSection(&b, report.SectionDuplicateSummary, r.DuplicateSummary, duplicateMarkdown)
	writeSection(&b, report.SectionNumericSummary, r.NumericSummary, numericMarkdown)
	writeSection(&b, report.SectionCategoricalSummary, r.CategoricalSummary, categoricalMarkdown)
	writeSection(&b, report.SectionCorrelationMatrix, r.CorrelationMatrix, correlationMarkdown)

	return b.String()
}

func writeSection[T any](b *strings.Builder, name string, s *report.Section[T], body func(*strings.Builder, T)) {
	fmt.Fprintf(b, "## %s\n\n", sectionTitles[name])
	if s == nil {
		b.WriteString("_not computed_\n\n")
		return
	}
	v, err := s.Value()
	if err != nil {
		fmt.Fprintf(b, "_unavailable: %s_\n\n", err)
		return
	}
	body(b, v)
	b.WriteString("\n")
}

func basicInfoMarkdown(b *strings.Builder, info report.BasicInfo) {
	fmt.Fprintf(b, "- Shape: %d rows x %d columns\n", info.Rows, info.Columns)
	fmt.Fprintf(b, "- Memory: %s\n", info.Memory)
	b.WriteString("\n| Column | Type |\n|---|---|\n")
	for _, ct := range info.DTypes {
		fmt.Fprintf(b, "| %s | %s |\n", ct.Column, ct.Type)
	}
}

func missingMarkdown(b *strings.Builder, ms report.MissingSummary) {
	b.WriteString("| Column | Missing | Percent |\n|---|---|---|\n")
	for _, cm := range ms {
		fmt.Fprintf(b, "| %s | %d | %.2f%% |\n", cm.Column, cm.MissingCount, cm.MissingPercent)
	}
}

func duplicateMarkdown(b *strings.Builder, ds report.DuplicateSummary) {
	fmt.Fprintf(b, "- Duplicate rows: %d\n", ds.DuplicateRows)
}

func statMarkdown(s report.Stat) string {
	if s.IsUndefined() {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", float64(s))
}

func numericMarkdown(b *strings.Builder, ns report.NumericSummary) {
	b.WriteString("| Statistic |")
	for _, m := range ns {
		fmt.Fprintf(b, " %s |", m.Column)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(ns)))
	b.WriteString("\n")
	for _, stat := range report.StatNames {
		row := ns.StatRow(stat)
		fmt.Fprintf(b, "| %s |", stat)
		for _, m := range ns {
			fmt.Fprintf(b, " %s |", statMarkdown(row[m.Column]))
		}
		b.WriteString("\n")
	}
}

func categoricalMarkdown(b *strings.Builder, cs report.CategoricalSummary) {
	b.WriteString("| Column | Unique | Mode | Freq |\n|---|---|---|---|\n")
	for _, cc := range cs {
		fmt.Fprintf(b, "| %s | %d | %s | %d |\n", cc.Column, cc.Nunique, cc.Mode, cc.Freq)
	}
}

func correlationMarkdown(b *strings.Builder, cm report.CorrelationMatrix) {
	b.WriteString("| |")
	for _, name := range cm.Columns {
		fmt.Fprintf(b, " %s |", name)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(cm.Columns)))
	b.WriteString("\n")
	for i, name := range cm.Columns {
		fmt.Fprintf(b, "| %s |", name)
		for j := range cm.Columns {
			fmt.Fprintf(b, " %s |", statMarkdown(cm.Coeffs[i][j]))
		}
		b.WriteString("\n")
	}
}

// SuggestionsMarkdown renders the suggestion list grouped by severity.
func SuggestionsMarkdown(suggestions []string) string {
	var b strings.Builder
	b.WriteString("# Cleaning Suggestions\n\n")
	if len(suggestions) == 0 {
		b.WriteString("_no suggestions_\n")
		return b.String()
	}

	groups := GroupBySeverity(suggestions)
	for _, sev := range []Severity{SeverityHigh, SeverityModerate, SeverityMinor, SeverityOK} {
		entries := groups[sev]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", strings.ToUpper(string(sev)[:1])+string(sev)[1:])
		for _, s := range entries {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ToHTML converts rendered markdown to an HTML fragment for the UI.
func ToHTML(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
