package ports

import (
	"context"

	"replab/domain/core"
)

// ArtifactStore persists materialized artifacts (notebook bytes, requirements
// manifests). The core produces bytes; where they live is a collaborator
// concern, so only paths come back.
type ArtifactStore interface {
	// PutNotebook stores notebook bytes for a plan and returns the storage path
	PutNotebook(ctx context.Context, planID core.PlanID, data []byte) (string, error)

	// PutRequirements stores the requirements manifest for a plan
	PutRequirements(ctx context.Context, planID core.PlanID, manifest string) (string, error)

	// GetNotebook retrieves previously stored notebook bytes
	GetNotebook(ctx context.Context, planID core.PlanID) ([]byte, error)
}
