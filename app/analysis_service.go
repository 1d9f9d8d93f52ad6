// Package app wires the engine passes into the full analysis pipeline
// consumed by the HTTP surface and the CLI.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pimprep/domain/analysis"
	"pimprep/domain/core"
	"pimprep/domain/dataset"
	"pimprep/internal/advisor"
	"pimprep/internal/classifier"
	"pimprep/internal/hierarchy"
	"pimprep/internal/profile"
	"pimprep/internal/taxonomy"
	"pimprep/internal/uom"
	"pimprep/internal/validation"
	"pimprep/ports"
)

// AnalysisService runs the classification, hierarchy and validation
// pipeline over dataset snapshots. The service itself is stateless;
// every Run operates on its own inputs with no cross-call interference.
type AnalysisService struct {
	thresholds  classifier.Thresholds
	uomKeywords []string
	repo        ports.AnalysisRepository // nil disables persistence
}

// NewAnalysisService creates a service with the given classification
// thresholds and custom UOM keywords. repo may be nil.
func NewAnalysisService(thresholds classifier.Thresholds, uomKeywords []string, repo ports.AnalysisRepository) *AnalysisService {
	return &AnalysisService{
		thresholds:  thresholds,
		uomKeywords: uomKeywords,
		repo:        repo,
	}
}

// Analyze runs the full recommendation pipeline with the default
// hierarchy built from the classifier output.
func (s *AnalysisService) Analyze(ds *dataset.Dataset) (*analysis.AnalysisResult, error) {
	scores, err := classifier.Classify(ds, s.thresholds)
	if err != nil {
		return nil, err
	}

	detector := uom.NewDetector(s.uomKeywords...)
	uomHeaders := detector.Headers(ds)
	builder, sugg := hierarchy.Build(ds, scores, uomHeaders)
	return s.resolve(ds, scores, detector, builder, sugg), nil
}

// AnalyzeWithHierarchy re-runs taxonomy resolution and the advisor
// against a caller-edited hierarchy instead of the default one. The
// classifier and UOM passes are recomputed fresh; nothing is cached
// between invocations.
func (s *AnalysisService) AnalyzeWithHierarchy(ds *dataset.Dataset, builder *hierarchy.Builder) (*analysis.AnalysisResult, error) {
	scores, err := classifier.Classify(ds, s.thresholds)
	if err != nil {
		return nil, err
	}
	detector := uom.NewDetector(s.uomKeywords...)
	return s.resolve(ds, scores, detector, builder, hierarchy.Suggestions{}), nil
}

func (s *AnalysisService) resolve(
	ds *dataset.Dataset,
	scores []analysis.CardinalityScore,
	detector *uom.Detector,
	builder *hierarchy.Builder,
	sugg hierarchy.Suggestions,
) *analysis.AnalysisResult {
	uomHeaders := detector.Headers(ds)
	taxonomyHeaders := builder.TaxonomyHeaders()
	propertyHeaders := propertyHeadersOf(ds, taxonomyHeaders, uomHeaders)

	res := taxonomy.Resolve(ds, taxonomyHeaders, propertyHeaders)

	return &analysis.AnalysisResult{
		Scores:               scores,
		Hierarchy:            builder.Levels,
		UnassignedHeaders:    builder.Unassigned,
		UomSuggestions:       detector.Detect(ds),
		RecordIDSuggestion:   sugg.RecordID,
		RecordNameSuggestion: sugg.RecordName,
		IncompleteLevels:     builder.IncompleteLevels(),
		TaxonomyTree:         res.Tree,
		TaxonomyPaths:        res.Paths,
		OrphanedRecords:      res.Orphans,
		MixedModel:           advisor.Advise(ds.RowCount(), len(res.Orphans)),
		Properties:           profile.Recommend(ds, propertyHeaders),
	}
}

// Validate runs the data-quality passes against the chosen hierarchy
// headers. Independent of Analyze; the two consume the same snapshot.
func (s *AnalysisService) Validate(ds *dataset.Dataset, hierarchyHeaders []string) analysis.ValidationResult {
	return validation.Validate(ds, hierarchyHeaders)
}

// Run performs analysis and validation over one snapshot, persisting
// the combined record when a repository is configured. The hierarchy
// is derived first (it is cheap and validation needs its headers);
// the heavier passes then run concurrently on the immutable snapshot.
func (s *AnalysisService) Run(ctx context.Context, ds *dataset.Dataset) (*ports.AnalysisRecord, error) {
	scores, err := classifier.Classify(ds, s.thresholds)
	if err != nil {
		return nil, err
	}
	detector := uom.NewDetector(s.uomKeywords...)
	uomHeaders := detector.Headers(ds)
	builder, sugg := hierarchy.Build(ds, scores, uomHeaders)
	taxonomyHeaders := builder.TaxonomyHeaders()

	var ar *analysis.AnalysisResult
	var vr analysis.ValidationResult

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		ar = s.resolve(ds, scores, detector, builder, sugg)
		return nil
	})
	g.Go(func() error {
		vr = validation.Validate(ds, taxonomyHeaders)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := &ports.AnalysisRecord{
		ID:          core.AnalysisID(core.NewID()),
		DatasetName: ds.Name,
		RowCount:    ds.RowCount(),
		ColumnCount: len(ds.Headers),
		Analysis:    *ar,
		Validation:  vr,
		CreatedAt:   time.Now().UTC(),
	}
	if s.repo != nil {
		if err := s.repo.Create(ctx, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// propertyHeadersOf lists the headers that are neither taxonomy levels
// nor UOM columns, in column order.
func propertyHeadersOf(ds *dataset.Dataset, taxonomyHeaders []string, uomHeaders map[string]bool) []string {
	taxonomy := make(map[string]bool, len(taxonomyHeaders))
	for _, h := range taxonomyHeaders {
		taxonomy[h] = true
	}
	var out []string
	for _, h := range ds.Headers {
		if !taxonomy[h] && !uomHeaders[h] {
			out = append(out, h)
		}
	}
	return out
}
