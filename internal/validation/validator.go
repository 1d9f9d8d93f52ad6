// Package validation runs the non-blocking data-quality passes:
// duplicate identifiers, spelling inconsistencies, missing hierarchy
// values and numeric outliers. The passes are independent and order
// insensitive; a failure in one never aborts the others, and missing
// cells in short rows are treated as empty values throughout.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pimprep/domain/analysis"
	"pimprep/domain/dataset"
)

// identifierKeywords selects headers subject to duplicate detection.
var identifierKeywords = []string{
	"sku", "id", "ean", "upc", "gtin", "code", "reference",
	"case", "pallet", "zuc", "zun", "barcode", "article",
}

// exclusionKeywords removes false positives from the identifier match
// (logistics, date and free-text columns).
var exclusionKeywords = []string{
	"unit", "uom", "measure", "weight", "height", "width", "depth",
	"length", "size", "date", "time", "created", "modified", "updated",
	"valid", "expiry", "description", "desc", "text", "comment", "note",
	"material",
}

const (
	// inconsistency detection only applies to columns with a workable
	// number of distinct values
	minDistinctForInconsistency = 2
	maxDistinctForInconsistency = 50

	// outlier detection needs a mostly-numeric column with enough samples
	numericRatioFloor  = 0.8
	minNumericSamples  = 10
	iqrFenceMultiplier = 1.5

	// a missing-value or outlier rate above this fraction changes how
	// the finding is graded
	rateThreshold = 0.10
)

// Validate runs all four passes over the dataset and the chosen
// hierarchy headers and aggregates the warnings.
func Validate(ds *dataset.Dataset, hierarchyHeaders []string) analysis.ValidationResult {
	res := analysis.ValidationResult{Warnings: []analysis.Warning{}}
	if ds.RowCount() == 0 {
		res.Summarize()
		return res
	}

	passes := []func() []analysis.Warning{
		func() []analysis.Warning { return detectDuplicates(ds) },
		func() []analysis.Warning { return detectInconsistencies(ds) },
		func() []analysis.Warning { return detectMissingHierarchy(ds, hierarchyHeaders) },
		func() []analysis.Warning { return detectOutliers(ds) },
	}
	for _, pass := range passes {
		res.Warnings = append(res.Warnings, runPass(pass)...)
	}
	res.Summarize()
	return res
}

// runPass isolates one pass so a panic in it cannot abort the others.
func runPass(pass func() []analysis.Warning) (warnings []analysis.Warning) {
	defer func() {
		if r := recover(); r != nil {
			warnings = nil
		}
	}()
	return pass()
}

// detectDuplicates groups trimmed values of identifier-like columns and
// reports every value held by more than one row. Row numbers are
// 1-based and offset past the header row.
func detectDuplicates(ds *dataset.Dataset) []analysis.Warning {
	var out []analysis.Warning
	for col, header := range ds.Headers {
		if !isIdentifierHeader(header) {
			continue
		}

		groups := make(map[string][]int)
		var order []string
		for row := 0; row < ds.RowCount(); row++ {
			v := ds.Cell(row, col)
			if dataset.IsEmptyCell(v) {
				continue
			}
			if _, seen := groups[v]; !seen {
				order = append(order, v)
			}
			groups[v] = append(groups[v], row)
		}

		var affected []int
		var examples []string
		dupValues := 0
		for _, v := range order {
			rows := groups[v]
			if len(rows) < 2 {
				continue
			}
			dupValues++
			for _, r := range rows {
				affected = append(affected, r+2) // 1-based, past the header row
			}
			if examples == nil {
				for i, r := range rows {
					if i == 3 {
						break
					}
					examples = append(examples, fmt.Sprintf("row %d: %s", r+2, v))
				}
			}
		}
		if dupValues == 0 {
			continue
		}

		out = append(out, analysis.Warning{
			Type:         analysis.WarningDuplicate,
			Severity:     analysis.SeverityHigh,
			Header:       header,
			Message:      fmt.Sprintf("%d duplicated %q values across %d rows", dupValues, header, len(affected)),
			AffectedRows: affected,
			Suggestion:   fmt.Sprintf("Values in %q should be unique; merge or renumber the duplicated rows before import.", header),
			Examples:     examples,
		})
	}
	return out
}

// detectInconsistencies finds values that differ only in spelling by
// grouping each column's values by their lower-cased form. Affected
// rows are appended per cluster and intentionally not deduplicated;
// the canonical spelling is the first-seen variant.
func detectInconsistencies(ds *dataset.Dataset) []analysis.Warning {
	var out []analysis.Warning
	for col, header := range ds.Headers {
		distinct := make(map[string]bool)
		variantsByLower := make(map[string][]string)
		rowsByLower := make(map[string][]int)
		var lowerOrder []string

		for row := 0; row < ds.RowCount(); row++ {
			v := ds.Cell(row, col)
			if dataset.IsEmptyCell(v) {
				continue
			}
			distinct[v] = true
			lower := strings.ToLower(v)
			if _, seen := rowsByLower[lower]; !seen {
				lowerOrder = append(lowerOrder, lower)
			}
			rowsByLower[lower] = append(rowsByLower[lower], row)
			if !containsString(variantsByLower[lower], v) {
				variantsByLower[lower] = append(variantsByLower[lower], v)
			}
		}

		if len(distinct) < minDistinctForInconsistency || len(distinct) > maxDistinctForInconsistency {
			continue
		}

		var affected []int
		var examples []string
		clusters := 0
		for _, lower := range lowerOrder {
			variants := variantsByLower[lower]
			if len(variants) < 2 {
				continue
			}
			clusters++
			affected = append(affected, rowsByLower[lower]...)
			if len(examples) < 3 {
				quoted := make([]string, len(variants))
				for i, v := range variants {
					quoted[i] = strconv.Quote(v)
				}
				examples = append(examples, fmt.Sprintf("%s → suggest %q", strings.Join(quoted, ", "), variants[0]))
			}
		}
		if clusters == 0 {
			continue
		}

		out = append(out, analysis.Warning{
			Type:         analysis.WarningInconsistency,
			Severity:     analysis.SeverityMedium,
			Header:       header,
			Message:      fmt.Sprintf("%d spelling clusters in %q", clusters, header),
			AffectedRows: affected,
			Suggestion:   fmt.Sprintf("Normalize the spelling variants in %q to one canonical form per cluster.", header),
			Examples:     examples,
		})
	}
	return out
}

// detectMissingHierarchy counts blank cells per chosen hierarchy header.
// Row indices are 0-based; a missing rate above 10% is graded high.
func detectMissingHierarchy(ds *dataset.Dataset, hierarchyHeaders []string) []analysis.Warning {
	var out []analysis.Warning
	total := ds.RowCount()
	for _, header := range hierarchyHeaders {
		col := ds.ColumnIndex(header)
		var missing []int
		for row := 0; row < total; row++ {
			if dataset.IsEmptyCell(ds.Cell(row, col)) {
				missing = append(missing, row)
			}
		}
		if len(missing) == 0 {
			continue
		}

		rate := float64(len(missing)) / float64(total)
		severity := analysis.SeverityMedium
		if rate > rateThreshold {
			severity = analysis.SeverityHigh
		}
		out = append(out, analysis.Warning{
			Type:         analysis.WarningMissingHierarchy,
			Severity:     severity,
			Header:       header,
			Message:      fmt.Sprintf("%d rows (%.1f%%) have no value for hierarchy level %q", len(missing), rate*100, header),
			AffectedRows: missing,
			Suggestion:   fmt.Sprintf("Rows without a %q value cannot be placed in the hierarchy; fill them in or import them as standalone records.", header),
		})
	}
	return out
}

// detectOutliers flags numeric values outside the IQR fences. Quartiles
// are taken by rank index (floor(n*0.25) and floor(n*0.75)) on the
// sorted sample, without interpolation. A high outlier rate means the
// distribution itself is wide, so only low rates are reported.
func detectOutliers(ds *dataset.Dataset) []analysis.Warning {
	var out []analysis.Warning
	total := ds.RowCount()
	for col, header := range ds.Headers {
		var values []float64
		var rows []int
		nonEmpty := 0
		for row := 0; row < total; row++ {
			v := ds.Cell(row, col)
			if dataset.IsEmptyCell(v) {
				continue
			}
			nonEmpty++
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				values = append(values, f)
				rows = append(rows, row)
			}
		}
		if len(values) < minNumericSamples || float64(len(values)) < numericRatioFloor*float64(nonEmpty) {
			continue
		}

		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		n := len(sorted)
		q1 := sorted[n*25/100]
		q3 := sorted[n*75/100]
		iqr := q3 - q1
		lower := q1 - iqrFenceMultiplier*iqr
		upper := q3 + iqrFenceMultiplier*iqr

		var affected []int
		var examples []string
		for i, v := range values {
			if v < lower || v > upper {
				affected = append(affected, rows[i])
				if len(examples) < 5 {
					examples = append(examples, strconv.FormatFloat(v, 'g', -1, 64))
				}
			}
		}
		if len(affected) == 0 || float64(len(affected)) >= rateThreshold*float64(total) {
			continue
		}

		out = append(out, analysis.Warning{
			Type:         analysis.WarningOutlier,
			Severity:     analysis.SeverityLow,
			Header:       header,
			Message:      fmt.Sprintf("%d values in %q fall outside [%.4g, %.4g]", len(affected), header, lower, upper),
			AffectedRows: affected,
			Suggestion:   fmt.Sprintf("Check whether the flagged %q values are data-entry errors or use a different unit.", header),
			Examples:     examples,
		})
	}
	return out
}

func isIdentifierHeader(header string) bool {
	lower := strings.ToLower(header)
	matched := false
	for _, kw := range identifierKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, kw := range exclusionKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
