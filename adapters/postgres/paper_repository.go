package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"replab/domain/core"
	"replab/models"
	"replab/ports"
)

// paperRepository implements the PaperRepository interface
type paperRepository struct {
	db *sqlx.DB
}

// NewPaperRepository creates a new paper repository
func NewPaperRepository(db *sqlx.DB) ports.PaperRepository {
	return &paperRepository{db: db}
}

// GetByID retrieves a paper by its ID
func (r *paperRepository) GetByID(ctx context.Context, id core.PaperID) (*models.PaperRecord, error) {
	query := `SELECT
		id, title,
		COALESCE(source_url, '') as source_url,
		COALESCE(doi, '') as doi,
		COALESCE(arxiv_id, '') as arxiv_id,
		pdf_storage_path, pdf_sha256, status,
		COALESCE(created_by, '') as created_by,
		created_at, updated_at,
		COALESCE(dataset_storage_path, '') as dataset_storage_path,
		COALESCE(dataset_format, '') as dataset_format,
		COALESCE(dataset_original_filename, '') as dataset_original_filename
	FROM papers WHERE id = $1`

	var record models.PaperRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("paper", id.String())
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	return &record, nil
}
