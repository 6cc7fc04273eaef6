package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"replab/domain/core"
	"replab/models"
	"replab/ports"
)

// assetRepository implements the AssetRepository interface
type assetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sqlx.DB) ports.AssetRepository {
	return &assetRepository{db: db}
}

// Create inserts a new asset row
func (r *assetRepository) Create(ctx context.Context, asset *models.AssetRecord) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO assets (
		id, paper_id, plan_id, kind, storage_path, size_bytes, checksum, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	)`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID, asset.PaperID, asset.PlanID, asset.Kind,
		asset.StoragePath, asset.SizeBytes, asset.Checksum, asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// ListByPlan retrieves all assets recorded for a plan
func (r *assetRepository) ListByPlan(ctx context.Context, planID core.PlanID) ([]models.AssetRecord, error) {
	query := `SELECT
		id,
		COALESCE(paper_id, '') as paper_id,
		COALESCE(plan_id, '') as plan_id,
		kind, storage_path,
		COALESCE(size_bytes, 0) as size_bytes,
		COALESCE(checksum, '') as checksum,
		created_at
	FROM assets WHERE plan_id = $1 ORDER BY created_at ASC`

	var records []models.AssetRecord
	if err := r.db.SelectContext(ctx, &records, query, planID); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return records, nil
}
