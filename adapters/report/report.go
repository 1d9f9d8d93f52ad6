// Package report renders an analysis snapshot into a human-readable
// markdown report, with optional HTML rendering for the web surface.
// It treats the analysis structures strictly as read-only input.
package report

import (
	"fmt"
	"strings"

	"pimprep/domain/analysis"
	"pimprep/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the full report for one analysis record.
func Markdown(rec *ports.AnalysisRecord) string {
	var b strings.Builder

	name := rec.DatasetName
	if name == "" {
		name = "dataset"
	}
	fmt.Fprintf(&b, "# Import analysis: %s\n\n", name)
	fmt.Fprintf(&b, "%d rows, %d columns.\n\n", rec.RowCount, rec.ColumnCount)

	writeHierarchy(&b, &rec.Analysis)
	writeSuggestions(&b, &rec.Analysis)
	writeTaxonomy(&b, &rec.Analysis)
	writeValidation(&b, &rec.Validation)

	return b.String()
}

// HTML renders the markdown report to HTML.
func HTML(rec *ports.AnalysisRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(rec)), p, renderer)
}

func writeHierarchy(b *strings.Builder, a *analysis.AnalysisResult) {
	b.WriteString("## Proposed hierarchy\n\n")
	if len(a.Hierarchy) == 0 {
		b.WriteString("No hierarchy could be derived from this dataset.\n\n")
		return
	}
	for _, l := range a.Hierarchy {
		fmt.Fprintf(b, "%d. **%s** — %s", l.Level, l.Name, strings.Join(l.Headers, ", "))
		if l.RecordID != "" {
			fmt.Fprintf(b, " (record id: %s)", l.RecordID)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, lvl := range a.IncompleteLevels {
		fmt.Fprintf(b, "> Level %d has no record-id column; assign one before import.\n\n", lvl)
	}
}

func writeSuggestions(b *strings.Builder, a *analysis.AnalysisResult) {
	b.WriteString("## Column suggestions\n\n")
	if a.RecordIDSuggestion != "" {
		fmt.Fprintf(b, "- Record identifier: **%s**\n", a.RecordIDSuggestion)
	} else {
		b.WriteString("- Record identifier: none found — no column is both fully unique and fully populated. Add one before import.\n")
	}
	if a.RecordNameSuggestion != "" {
		fmt.Fprintf(b, "- Record name: **%s**\n", a.RecordNameSuggestion)
	}
	for _, u := range a.UomSuggestions {
		fmt.Fprintf(b, "- **%s** looks like a unit-of-measure column (keyword %q)", u.Header, u.MatchedKeyword)
		if u.SuggestedSplit {
			fmt.Fprintf(b, "; values such as %q combine amount and unit and could be split", u.ExampleValue)
			if len(u.ConvertibleWith) > 0 {
				fmt.Fprintf(b, " (convertible with %s)", strings.Join(u.ConvertibleWith, ", "))
			}
		}
		b.WriteString(".\n")
	}
	for _, p := range a.Properties {
		fmt.Fprintf(b, "- Model **%s** as a %s property: %s.\n", p.Header, p.Kind, p.Reason)
	}
	b.WriteString("\n")
}

func writeTaxonomy(b *strings.Builder, a *analysis.AnalysisResult) {
	b.WriteString("## Taxonomy\n\n")
	fmt.Fprintf(b, "%s\n\n", a.MixedModel.Reasoning)
	if len(a.TaxonomyPaths) > 0 {
		for _, p := range a.TaxonomyPaths {
			fmt.Fprintf(b, "- %s — %d products\n", strings.Join(p.Path, " > "), p.ProductCount)
		}
		b.WriteString("\n")
	}
	if n := len(a.OrphanedRecords); n > 0 {
		fmt.Fprintf(b, "%d rows could not be placed in the taxonomy.\n\n", n)
	}
}

func writeValidation(b *strings.Builder, v *analysis.ValidationResult) {
	b.WriteString("## Data quality\n\n")
	if len(v.Warnings) == 0 {
		b.WriteString("No issues found.\n")
		return
	}
	fmt.Fprintf(b, "%d findings, %d critical.\n\n", v.TotalIssues, v.CriticalIssues)
	for _, w := range v.Warnings {
		fmt.Fprintf(b, "- **%s** [%s] %s — %s\n", w.Severity, w.Type, w.Message, w.Suggestion)
	}
}
