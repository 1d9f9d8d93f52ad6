// Package analysis defines the result types produced by the hierarchy
// and data-quality engine. Everything here is plain data: the engine
// computes these values fresh on every invocation and consumers
// (report, persistence, HTTP) treat them as read-only.
package analysis

// Level classifies a column by its cardinality band.
type Level string

const (
	Level1 Level = "level1" // parent/taxonomy candidate, low variety
	Level2 Level = "level2" // child/variant candidate
	Level3 Level = "level3" // SKU-level, near-unique
)

// CardinalityScore represents per-header cardinality statistics.
type CardinalityScore struct {
	Header         string  `json:"header"`
	UniqueCount    int     `json:"unique_count"`
	TotalCount     int     `json:"total_count"`
	Cardinality    float64 `json:"cardinality"`
	Completeness   float64 `json:"completeness"`
	HierarchyScore float64 `json:"hierarchy_score"`
	Classification Level   `json:"classification"`
}

// HierarchyLevel represents one tier of the proposed product hierarchy.
type HierarchyLevel struct {
	Level      int      `json:"level"` // 1-based, contiguous
	Name       string   `json:"name"`
	Headers    []string `json:"headers"`
	RecordID   string   `json:"record_id,omitempty"`   // exactly one header; empty means incomplete
	RecordName string   `json:"record_name,omitempty"` // optional header
}

// HasHeader reports whether a header belongs to this level.
func (l *HierarchyLevel) HasHeader(header string) bool {
	for _, h := range l.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// UomSuggestion represents a detected unit-of-measure column.
type UomSuggestion struct {
	Header          string   `json:"header"`
	MatchedKeyword  string   `json:"matched_keyword"`
	SuggestedSplit  bool     `json:"suggested_split"`
	ExampleValue    string   `json:"example_value,omitempty"`
	ExampleUnit     string   `json:"example_unit,omitempty"`
	ConvertibleWith []string `json:"convertible_with,omitempty"` // advisory only, never applied
}

// TaxonomyNode is one node of the taxonomy tree. Children are owned
// exclusively by their parent; traversal is always top-down.
type TaxonomyNode struct {
	Name         string          `json:"name"`
	Level        int             `json:"level"` // 0 for the synthetic root
	ProductCount int             `json:"product_count"`
	Children     []*TaxonomyNode `json:"children,omitempty"`
}

// Child returns the child with the given name, or nil.
func (n *TaxonomyNode) Child(name string) *TaxonomyNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TaxonomyPath is a flattened root-to-leaf path through the tree.
type TaxonomyPath struct {
	Path         []string `json:"path"`
	ProductCount int      `json:"product_count"`
	Properties   []string `json:"properties,omitempty"`
}

// OrphanedRecord represents a row that could not be placed in the tree.
type OrphanedRecord struct {
	RowIndex int      `json:"row_index"`
	Issues   []string `json:"issues"`
}

// MixedModelSuggestion is the advisor's verdict on the import strategy.
type MixedModelSuggestion struct {
	HierarchicalPercentage float64 `json:"hierarchical_percentage"`
	StandalonePercentage   float64 `json:"standalone_percentage"`
	ShouldUseMixed         bool    `json:"should_use_mixed"`
	RecommendedModel       string  `json:"recommended_model"` // "hierarchical", "standalone" or "mixed"
	Reasoning              string  `json:"reasoning"`
}

// PropertyRecommendation suggests how an unassigned column should be
// modeled in the target catalog.
type PropertyRecommendation struct {
	Header        string          `json:"header"`
	Kind          PropertyKind    `json:"kind"`
	DistinctCount int             `json:"distinct_count"`
	Reason        string          `json:"reason"`
	Numeric       *NumericSummary `json:"numeric,omitempty"`
}

// PropertyKind classifies the suggested representation of a property.
type PropertyKind string

const (
	PropertyPicklist PropertyKind = "picklist"
	PropertyNumeric  PropertyKind = "numeric"
	PropertyText     PropertyKind = "text"
)

// NumericSummary describes the distribution of a numeric column.
type NumericSummary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	IsNormal bool    `json:"is_normal"`
	ShapiroP float64 `json:"shapiro_p"`
}

// AnalysisResult aggregates everything one analysis invocation produces.
type AnalysisResult struct {
	Scores               []CardinalityScore       `json:"scores"`
	Hierarchy            []HierarchyLevel         `json:"hierarchy"`
	UnassignedHeaders    []string                 `json:"unassigned_headers,omitempty"`
	UomSuggestions       []UomSuggestion          `json:"uom_suggestions,omitempty"`
	RecordIDSuggestion   string                   `json:"record_id_suggestion,omitempty"`
	RecordNameSuggestion string                   `json:"record_name_suggestion,omitempty"`
	IncompleteLevels     []int                    `json:"incomplete_levels,omitempty"`
	TaxonomyTree         *TaxonomyNode            `json:"taxonomy_tree,omitempty"`
	TaxonomyPaths        []TaxonomyPath           `json:"taxonomy_paths,omitempty"`
	OrphanedRecords      []OrphanedRecord         `json:"orphaned_records,omitempty"`
	MixedModel           MixedModelSuggestion     `json:"mixed_model"`
	Properties           []PropertyRecommendation `json:"properties,omitempty"`
}
