package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"replab/domain/core"
	"replab/models"
	"replab/ports"
)

// claimRepository implements the ClaimRepository interface
type claimRepository struct {
	db *sqlx.DB
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sqlx.DB) ports.ClaimRepository {
	return &claimRepository{db: db}
}

// ListByPaper retrieves all claims extracted from a paper, oldest first
func (r *claimRepository) ListByPaper(ctx context.Context, paperID core.PaperID) ([]models.ClaimRecord, error) {
	query := `SELECT
		id, paper_id,
		COALESCE(dataset_name, '') as dataset_name,
		COALESCE(split, '') as split,
		metric_name, metric_value,
		COALESCE(units, '') as units,
		source_citation, confidence, created_at
	FROM claims WHERE paper_id = $1 ORDER BY created_at ASC`

	var records []models.ClaimRecord
	if err := r.db.SelectContext(ctx, &records, query, paperID); err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return records, nil
}
