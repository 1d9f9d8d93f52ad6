package analysis

// WarningType is the closed set of data-quality warning categories.
type WarningType string

const (
	WarningDuplicate        WarningType = "duplicate"
	WarningInconsistency    WarningType = "inconsistency"
	WarningNormalization    WarningType = "normalization"
	WarningOutlier          WarningType = "outlier"
	WarningMissingHierarchy WarningType = "missing_hierarchy"
)

// Severity grades how urgently a warning should be addressed.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning represents one non-blocking data-quality finding.
type Warning struct {
	Type         WarningType `json:"type"`
	Severity     Severity    `json:"severity"`
	Header       string      `json:"header"`
	Message      string      `json:"message"`
	AffectedRows []int       `json:"affected_rows,omitempty"`
	Suggestion   string      `json:"suggestion"`
	Examples     []string    `json:"examples,omitempty"`
}

// ValidationResult aggregates all warnings of one validation pass.
type ValidationResult struct {
	Warnings       []Warning `json:"warnings"`
	TotalIssues    int       `json:"total_issues"`
	CriticalIssues int       `json:"critical_issues"`
}

// Summarize recomputes the issue counters from the warning list.
func (r *ValidationResult) Summarize() {
	r.TotalIssues = len(r.Warnings)
	r.CriticalIssues = 0
	for _, w := range r.Warnings {
		if w.Severity == SeverityHigh {
			r.CriticalIssues++
		}
	}
}
