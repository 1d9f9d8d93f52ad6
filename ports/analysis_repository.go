package ports

import (
	"context"
	"time"

	"pimprep/domain/analysis"
	"pimprep/domain/core"
)

// AnalysisRecord is one persisted analysis snapshot. The engine never
// writes these itself; the app service stores them after a run when a
// repository is configured.
type AnalysisRecord struct {
	ID          core.AnalysisID           `json:"id" db:"id"`
	DatasetName string                    `json:"dataset_name" db:"dataset_name"`
	RowCount    int                       `json:"row_count" db:"row_count"`
	ColumnCount int                       `json:"column_count" db:"column_count"`
	Analysis    analysis.AnalysisResult   `json:"analysis"`
	Validation  analysis.ValidationResult `json:"validation"`
	CreatedAt   time.Time                 `json:"created_at" db:"created_at"`
}

// AnalysisRepository persists analysis snapshots.
type AnalysisRepository interface {
	Create(ctx context.Context, rec *AnalysisRecord) error
	GetByID(ctx context.Context, id core.AnalysisID) (*AnalysisRecord, error)
	List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error)
}
