// Package hierarchy assembles classified columns into ordered hierarchy
// levels and supports the interactive edits an implementer makes while
// shaping the import model. Every operation re-establishes the level
// invariants before returning: header sets stay pairwise disjoint and
// level numbers stay contiguous starting at 1.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"pimprep/domain/analysis"
	"pimprep/domain/core"
	"pimprep/domain/dataset"

	"github.com/montanaflynn/stats"
)

// Unassigned is the pseudo-level index addressing the unassigned pool
// in MoveHeader calls.
const Unassigned = 0

// identifierKeywords marks headers that look like record identifiers.
var identifierKeywords = []string{
	"sku", "id", "ean", "upc", "gtin", "code", "reference", "article", "barcode",
}

// Builder holds the editable hierarchy state. It is a value assembled
// per analysis; callers re-supply an edited builder on re-analysis.
type Builder struct {
	Levels     []analysis.HierarchyLevel
	Unassigned []string

	scores map[string]analysis.CardinalityScore
}

// Suggestions carries the dataset-wide column recommendations produced
// during default construction.
type Suggestions struct {
	RecordID   string
	RecordName string
}

// Build constructs the default hierarchy from classifier output:
// level1 headers form the parent level, level2 headers the variant
// level, everything else (including UOM columns, which are forced out
// of taxonomy candidacy) the final SKU level.
func Build(ds *dataset.Dataset, scores []analysis.CardinalityScore, uomHeaders map[string]bool) (*Builder, Suggestions) {
	b := &Builder{scores: make(map[string]analysis.CardinalityScore, len(scores))}
	for _, s := range scores {
		b.scores[s.Header] = s
	}

	var parents, variants, skus []string
	for _, s := range scores {
		switch {
		case uomHeaders[s.Header]:
			skus = append(skus, s.Header)
		case s.Classification == analysis.Level1:
			parents = append(parents, s.Header)
		case s.Classification == analysis.Level2:
			variants = append(variants, s.Header)
		default:
			skus = append(skus, s.Header)
		}
	}

	sugg := Suggestions{
		RecordID:   b.suggestRecordID(ds, scores),
		RecordName: b.suggestRecordName(ds, scores, uomHeaders),
	}

	if len(parents) > 0 {
		b.appendLevel("Parent", parents, "")
	}
	if len(variants) > 0 {
		b.appendLevel("Variant", variants, "")
	}
	if len(skus) > 0 {
		b.appendLevel("SKU", skus, sugg.RecordID)
	}
	return b, sugg
}

func (b *Builder) appendLevel(name string, headers []string, recordID string) {
	if recordID == "" {
		recordID = b.chooseRecordID(headers)
	}
	b.Levels = append(b.Levels, analysis.HierarchyLevel{
		Level:    len(b.Levels) + 1,
		Name:     name,
		Headers:  headers,
		RecordID: recordID,
	})
}

// chooseRecordID picks the most identifying header within a level:
// highest completeness first, then highest cardinality, then column
// order as captured by the score list.
func (b *Builder) chooseRecordID(headers []string) string {
	best := ""
	var bestScore analysis.CardinalityScore
	for _, h := range headers {
		s, ok := b.scores[h]
		if !ok {
			continue
		}
		if best == "" ||
			s.Completeness > bestScore.Completeness ||
			(s.Completeness == bestScore.Completeness && s.Cardinality > bestScore.Cardinality) {
			best = h
			bestScore = s
		}
	}
	return best
}

// suggestRecordID selects the dataset-wide record identifier: a header
// with full completeness and full uniqueness, preferring identifier-like
// names, ties broken by left-to-right column order. No qualifying
// header means no suggestion; that is a normal outcome.
func (b *Builder) suggestRecordID(ds *dataset.Dataset, scores []analysis.CardinalityScore) string {
	fallback := ""
	for _, s := range scores {
		if s.Completeness != 1.0 || s.Cardinality != 1.0 {
			continue
		}
		if matchesIdentifier(s.Header) {
			return s.Header
		}
		if fallback == "" {
			fallback = s.Header
		}
	}
	return fallback
}

// suggestRecordName favors a descriptive text column: high completeness,
// mostly non-numeric values, moderate average length, and not an
// identifier-like name.
func (b *Builder) suggestRecordName(ds *dataset.Dataset, scores []analysis.CardinalityScore, uomHeaders map[string]bool) string {
	best := ""
	bestScore := 0.0

	for col, s := range scores {
		if matchesIdentifier(s.Header) || uomHeaders[s.Header] || s.Completeness < 0.8 {
			continue
		}
		avgLen, numericRatio := columnTextProfile(ds, col)
		if numericRatio >= 0.5 || avgLen < 3 || avgLen > 60 {
			continue
		}
		// completeness dominates; penalize lengths far from a readable name
		lengthFit := 1.0 - minFloat(absFloat(avgLen-20)/40, 1.0)
		score := 0.7*s.Completeness + 0.3*lengthFit
		if score > bestScore {
			best = s.Header
			bestScore = score
		}
	}
	return best
}

// columnTextProfile returns the average length of non-empty values and
// the fraction that parse as numbers.
func columnTextProfile(ds *dataset.Dataset, col int) (avgLen float64, numericRatio float64) {
	var lengths []float64
	numeric := 0
	for row := 0; row < ds.RowCount(); row++ {
		v := ds.Cell(row, col)
		if dataset.IsEmptyCell(v) {
			continue
		}
		lengths = append(lengths, float64(len(v)))
		if isNumeric(v) {
			numeric++
		}
	}
	if len(lengths) == 0 {
		return 0, 0
	}
	avgLen, _ = stats.Mean(lengths)
	return avgLen, float64(numeric) / float64(len(lengths))
}

func isNumeric(v string) bool {
	if v == "" {
		return false
	}
	dot := false
	for i, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' && i == 0:
		case (r == '.' || r == ',') && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

func matchesIdentifier(header string) bool {
	lower := strings.ToLower(header)
	for _, kw := range identifierKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// AddLevel appends an empty level with the next sequential index.
func (b *Builder) AddLevel(name string) *analysis.HierarchyLevel {
	if name == "" {
		name = fmt.Sprintf("Level %d", len(b.Levels)+1)
	}
	b.Levels = append(b.Levels, analysis.HierarchyLevel{
		Level: len(b.Levels) + 1,
		Name:  name,
	})
	return &b.Levels[len(b.Levels)-1]
}

// RemoveLevel deletes the level with the given 1-based index, returns
// its headers to the unassigned pool and renumbers the remaining levels
// to stay contiguous.
func (b *Builder) RemoveLevel(index int) error {
	pos := b.levelPos(index)
	if pos < 0 {
		return fmt.Errorf("%w: level %d", core.ErrUnknownLevel, index)
	}
	b.Unassigned = append(b.Unassigned, b.Levels[pos].Headers...)
	b.Levels = append(b.Levels[:pos], b.Levels[pos+1:]...)
	b.renumber()
	return b.checkInvariants()
}

// MoveHeader moves a header between two locations. Level index 0
// addresses the unassigned pool. Moving a level's record-id header out
// completes the move; the level is then reported as incomplete rather
// than silently repaired.
func (b *Builder) MoveHeader(header string, from, to int) error {
	if from == to {
		return nil
	}
	if err := b.detach(header, from); err != nil {
		return err
	}
	if to == Unassigned {
		b.Unassigned = append(b.Unassigned, header)
		return b.checkInvariants()
	}
	pos := b.levelPos(to)
	if pos < 0 {
		// put it back where it came from before failing
		b.attach(header, from)
		return fmt.Errorf("%w: level %d", core.ErrUnknownLevel, to)
	}
	b.Levels[pos].Headers = append(b.Levels[pos].Headers, header)
	return b.checkInvariants()
}

// ReorderLevels renumbers levels 1..N to match newOrder, which lists
// the current level numbers in their new sequence. Header membership
// is preserved.
func (b *Builder) ReorderLevels(newOrder []int) error {
	if len(newOrder) != len(b.Levels) {
		return fmt.Errorf("%w: got %d positions for %d levels", core.ErrInvalidReorder, len(newOrder), len(b.Levels))
	}
	seen := make(map[int]bool, len(newOrder))
	reordered := make([]analysis.HierarchyLevel, 0, len(b.Levels))
	for _, idx := range newOrder {
		pos := b.levelPos(idx)
		if pos < 0 || seen[idx] {
			return fmt.Errorf("%w: level %d", core.ErrInvalidReorder, idx)
		}
		seen[idx] = true
		reordered = append(reordered, b.Levels[pos])
	}
	b.Levels = reordered
	b.renumber()
	return b.checkInvariants()
}

// SetRecordID designates a level's record-id header. The header must
// already belong to that level.
func (b *Builder) SetRecordID(level int, header string) error {
	pos := b.levelPos(level)
	if pos < 0 {
		return fmt.Errorf("%w: level %d", core.ErrUnknownLevel, level)
	}
	if !b.Levels[pos].HasHeader(header) {
		return fmt.Errorf("%w: %q in level %d", core.ErrHeaderNotFound, header, level)
	}
	b.Levels[pos].RecordID = header
	return nil
}

// IncompleteLevels lists the level numbers currently lacking a
// record-id header. This is a warning condition, not an error.
func (b *Builder) IncompleteLevels() []int {
	var out []int
	for _, l := range b.Levels {
		if l.RecordID == "" || !l.HasHeader(l.RecordID) {
			out = append(out, l.Level)
		}
	}
	return out
}

// detach removes a header from its current location, verifying it is
// exactly where the caller says it is.
func (b *Builder) detach(header string, from int) error {
	if from == Unassigned {
		for i, h := range b.Unassigned {
			if h == header {
				b.Unassigned = append(b.Unassigned[:i], b.Unassigned[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %q in unassigned pool", core.ErrHeaderNotFound, header)
	}
	pos := b.levelPos(from)
	if pos < 0 {
		return fmt.Errorf("%w: level %d", core.ErrUnknownLevel, from)
	}
	l := &b.Levels[pos]
	for i, h := range l.Headers {
		if h == header {
			l.Headers = append(l.Headers[:i], l.Headers[i+1:]...)
			if l.RecordID == header {
				l.RecordID = "" // reported via IncompleteLevels, never refilled here
			}
			if l.RecordName == header {
				l.RecordName = ""
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q in level %d", core.ErrHeaderNotFound, header, from)
}

func (b *Builder) attach(header string, to int) {
	if to == Unassigned {
		b.Unassigned = append(b.Unassigned, header)
		return
	}
	if pos := b.levelPos(to); pos >= 0 {
		b.Levels[pos].Headers = append(b.Levels[pos].Headers, header)
	}
}

func (b *Builder) levelPos(index int) int {
	for i, l := range b.Levels {
		if l.Level == index {
			return i
		}
	}
	return -1
}

func (b *Builder) renumber() {
	for i := range b.Levels {
		b.Levels[i].Level = i + 1
	}
}

// checkInvariants verifies the structural invariants that must hold
// after every operation: pairwise disjoint header sets and contiguous
// numbering from 1. A violation here is a bug, not a user mistake.
func (b *Builder) checkInvariants() error {
	seen := make(map[string]int)
	for _, l := range b.Levels {
		for _, h := range l.Headers {
			if prev, dup := seen[h]; dup {
				return fmt.Errorf("%w: %q in levels %d and %d", core.ErrHeaderAssigned, h, prev, l.Level)
			}
			seen[h] = l.Level
		}
	}
	for _, h := range b.Unassigned {
		if prev, dup := seen[h]; dup {
			return fmt.Errorf("%w: %q in level %d and unassigned pool", core.ErrHeaderAssigned, h, prev)
		}
		seen[h] = Unassigned
	}
	for i, l := range b.Levels {
		if l.Level != i+1 {
			return fmt.Errorf("level numbering not contiguous: position %d holds level %d", i+1, l.Level)
		}
	}
	return nil
}

// TaxonomyHeaders returns the headers of the levels designated for
// categorization, in level order. By convention these are all levels
// before the final (SKU) level; a single-level hierarchy has none.
func (b *Builder) TaxonomyHeaders() []string {
	if len(b.Levels) < 2 {
		return nil
	}
	var out []string
	levels := append([]analysis.HierarchyLevel(nil), b.Levels...)
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })
	for _, l := range levels[:len(levels)-1] {
		out = append(out, l.Headers...)
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absFloat(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}
