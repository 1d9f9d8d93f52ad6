package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pimprep/domain/core"
	"pimprep/ports"

	"github.com/jmoiron/sqlx"
)

// analysisRepository implements the AnalysisRepository interface
type analysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &analysisRepository{db: db}
}

// Migrate creates the analyses table when it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		dataset_name TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		column_count INTEGER NOT NULL,
		analysis JSONB NOT NULL,
		validation JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to migrate analyses table: %w", err)
	}
	return nil
}

// Create inserts a new analysis snapshot
func (r *analysisRepository) Create(ctx context.Context, rec *ports.AnalysisRecord) error {
	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	validationJSON, err := json.Marshal(rec.Validation)
	if err != nil {
		return fmt.Errorf("failed to marshal validation: %w", err)
	}

	query := `INSERT INTO analyses (
		id, dataset_name, row_count, column_count, analysis, validation, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.DatasetName, rec.RowCount, rec.ColumnCount,
		analysisJSON, validationJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// GetByID retrieves an analysis snapshot by its ID
func (r *analysisRepository) GetByID(ctx context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	query := `SELECT id, dataset_name, row_count, column_count, analysis, validation, created_at
	FROM analyses WHERE id = $1`

	var rec ports.AnalysisRecord
	var analysisJSON, validationJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.DatasetName, &rec.RowCount, &rec.ColumnCount,
		&analysisJSON, &validationJSON, &rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("analysis", id.String())
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(analysisJSON, &rec.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	if err := json.Unmarshal(validationJSON, &rec.Validation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation: %w", err)
	}
	return &rec, nil
}

// List retrieves analysis snapshots ordered newest first
func (r *analysisRepository) List(ctx context.Context, limit, offset int) ([]*ports.AnalysisRecord, error) {
	query := `SELECT id, dataset_name, row_count, column_count, analysis, validation, created_at
	FROM analyses
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []*ports.AnalysisRecord
	for rows.Next() {
		var rec ports.AnalysisRecord
		var analysisJSON, validationJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.DatasetName, &rec.RowCount, &rec.ColumnCount,
			&analysisJSON, &validationJSON, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if err := json.Unmarshal(analysisJSON, &rec.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		if err := json.Unmarshal(validationJSON, &rec.Validation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
