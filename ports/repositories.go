package ports

import (
	"context"

	"replab/domain/core"
	"replab/models"
)

// PaperRepository provides access to paper rows
type PaperRepository interface {
	GetByID(ctx context.Context, id core.PaperID) (*models.PaperRecord, error)
}

// PlanRepository provides access to plan rows
type PlanRepository interface {
	GetByID(ctx context.Context, id core.PlanID) (*models.PlanRecord, error)
	UpdateEnvHash(ctx context.Context, id core.PlanID, envHash core.EnvHash) error
	UpdateStatus(ctx context.Context, id core.PlanID, status string) error
}

// ClaimRepository provides access to extracted claim rows
type ClaimRepository interface {
	ListByPaper(ctx context.Context, paperID core.PaperID) ([]models.ClaimRecord, error)
}

// AssetRepository records stored artifacts
type AssetRepository interface {
	Create(ctx context.Context, asset *models.AssetRecord) error
	ListByPlan(ctx context.Context, planID core.PlanID) ([]models.AssetRecord, error)
}
