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

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sqlx.DB) ports.PlanRepository {
	return &planRepository{db: db}
}

// GetByID retrieves a plan by its ID
func (r *planRepository) GetByID(ctx context.Context, id core.PlanID) (*models.PlanRecord, error) {
	query := `SELECT
		id, paper_id, version, plan_json,
		COALESCE(env_hash, '') as env_hash,
		COALESCE(budget_minutes, 0) as budget_minutes,
		COALESCE(status, '') as status,
		COALESCE(created_by, '') as created_by,
		created_at, updated_at
	FROM plans WHERE id = $1`

	var record models.PlanRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("plan", id.String())
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &record, nil
}

// UpdateEnvHash stores the environment fingerprint for a plan, used by the
// run layer to detect configuration drift between generation and execution
func (r *planRepository) UpdateEnvHash(ctx context.Context, id core.PlanID, envHash core.EnvHash) error {
	query := `UPDATE plans SET env_hash = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, envHash.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update env hash: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return core.NewNotFoundError("plan", id.String())
	}
	return nil
}

// UpdateStatus sets the plan lifecycle status
func (r *planRepository) UpdateStatus(ctx context.Context, id core.PlanID, status string) error {
	query := `UPDATE plans SET status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}
	return nil
}
