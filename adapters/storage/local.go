package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"replab/domain/core"
)

// LocalStore persists materialized artifacts on the local filesystem under
// artifact_root/plans/<plan_id>/. The bucket layout of the hosted object
// store is a collaborator concern; this adapter keeps the same per-plan
// shape locally.
type LocalStore struct {
	root string
}

// NewLocalStore creates a filesystem-backed artifact store
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) planDir(planID core.PlanID) string {
	return filepath.Join(s.root, "plans", planID.String())
}

// PutNotebook writes notebook bytes for a plan
func (s *LocalStore) PutNotebook(ctx context.Context, planID core.PlanID, data []byte) (string, error) {
	return s.write(planID, "notebook.ipynb", data)
}

// PutRequirements writes the requirements manifest for a plan
func (s *LocalStore) PutRequirements(ctx context.Context, planID core.PlanID, manifest string) (string, error) {
	return s.write(planID, "requirements.txt", []byte(manifest))
}

// GetNotebook reads back previously stored notebook bytes
func (s *LocalStore) GetNotebook(ctx context.Context, planID core.PlanID) ([]byte, error) {
	path := filepath.Join(s.planDir(planID), "notebook.ipynb")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("notebook", planID.String())
		}
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	return data, nil
}

func (s *LocalStore) write(planID core.PlanID, name string, data []byte) (string, error) {
	dir := s.planDir(planID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
