// Package uom detects unit-of-measure and logistics columns by header
// keyword matching and inspects their values for embedded units.
// Detected headers are excluded from hierarchy candidacy; conversion
// hints are advisory text and are never applied to the data.
package uom

import (
	"regexp"
	"strings"

	"pimprep/domain/analysis"
	"pimprep/domain/dataset"
)

// baseKeywords is the built-in keyword set. Matching is lower-cased
// substring containment against the header name.
var baseKeywords = []string{
	"uom", "unit", "measure", "measurement", "dimension",
	"weight", "height", "width", "depth", "length", "size",
}

// convertiblePairs lists unit conversions worth mentioning to the
// implementer when a split is suggested.
var convertiblePairs = map[string][]string{
	"mg": {"g"},
	"g":  {"kg", "mg"},
	"kg": {"g", "t"},
	"t":  {"kg"},
	"ml": {"l", "cl"},
	"cl": {"l", "ml"},
	"l":  {"ml", "cl"},
	"mm": {"cm"},
	"cm": {"mm", "m"},
	"m":  {"cm", "km"},
	"km": {"m"},
}

// valueWithUnit matches a number immediately followed by unit letters,
// e.g. "12g" or "3.5 kg".
var valueWithUnit = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?\s*([a-zA-Z]{1,6})$`)

// sampleLimit caps how many non-empty values per column are inspected
// for the embedded-unit pattern.
const sampleLimit = 200

// Detector matches headers against the combined keyword set.
type Detector struct {
	keywords []string
}

// NewDetector creates a detector with the base keywords plus any
// caller-supplied custom keywords.
func NewDetector(customKeywords ...string) *Detector {
	kws := make([]string, 0, len(baseKeywords)+len(customKeywords))
	kws = append(kws, baseKeywords...)
	for _, k := range customKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kws = append(kws, k)
		}
	}
	return &Detector{keywords: kws}
}

// MatchHeader returns the first keyword contained in the header name,
// or "" when the header is not a UOM candidate.
func (d *Detector) MatchHeader(header string) string {
	lower := strings.ToLower(header)
	for _, kw := range d.keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}

// Detect scans all headers and returns a suggestion per matched column.
func (d *Detector) Detect(ds *dataset.Dataset) []analysis.UomSuggestion {
	var out []analysis.UomSuggestion
	for col, header := range ds.Headers {
		kw := d.MatchHeader(header)
		if kw == "" {
			continue
		}
		s := analysis.UomSuggestion{Header: header, MatchedKeyword: kw}
		d.inspectValues(ds, col, &s)
		out = append(out, s)
	}
	return out
}

// Headers returns the set of matched header names, for callers that
// only need to exclude UOM columns from hierarchy candidacy.
func (d *Detector) Headers(ds *dataset.Dataset) map[string]bool {
	matched := make(map[string]bool)
	for _, header := range ds.Headers {
		if d.MatchHeader(header) != "" {
			matched[header] = true
		}
	}
	return matched
}

// inspectValues samples the column and flags a split when the majority
// of non-empty sampled values carry an embedded unit.
func (d *Detector) inspectValues(ds *dataset.Dataset, col int, s *analysis.UomSuggestion) {
	sampled := 0
	matchedCount := 0
	exampleValue := ""
	exampleUnit := ""

	for row := 0; row < ds.RowCount() && sampled < sampleLimit; row++ {
		v := ds.Cell(row, col)
		if dataset.IsEmptyCell(v) {
			continue
		}
		sampled++
		m := valueWithUnit.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		matchedCount++
		if exampleValue == "" {
			exampleValue = v
			exampleUnit = strings.ToLower(m[1])
		}
	}

	if sampled == 0 || matchedCount*2 <= sampled {
		return
	}

	s.SuggestedSplit = true
	s.ExampleValue = exampleValue
	s.ExampleUnit = exampleUnit
	s.ConvertibleWith = convertiblePairs[exampleUnit]
}
