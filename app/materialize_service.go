package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"replab/adapters/codegen"
	"replab/domain/core"
	"replab/domain/notebook"
	"replab/domain/plan"
	"replab/internal/errors"
	"replab/internal/validation"
	"replab/models"
	"replab/ports"
)

// DefaultRequirements is the base dependency set every notebook carries,
// before generator requirements are merged in.
var DefaultRequirements = []string{
	"numpy==1.26.4",
	"scikit-learn==1.5.1",
	"pandas==2.2.2",
	"matplotlib==3.9.0",
	"jupyter==1.1.1",
}

// Artifacts describes one completed materialization
type Artifacts struct {
	NotebookPath     string            `json:"notebook_path"`
	RequirementsPath string            `json:"requirements_path"`
	EnvHash          core.EnvHash      `json:"env_hash"`
	Validation       validation.Result `json:"validation"`
}

// MaterializeService turns a validated plan into a runnable notebook plus a
// pinned requirements manifest. Generation is a pure function of the plan and
// generator set: repeated invocations produce byte-identical artifacts, which
// is what makes the environment hash meaningful for drift detection.
type MaterializeService struct {
	factory   *codegen.Factory
	validator *validation.NotebookValidator
	store     ports.ArtifactStore
	assets    ports.AssetRepository
	claims    ports.ClaimRepository
}

// NewMaterializeService creates a materialize service. Claims and assets may
// be nil for offline use (CLI): the claim summary line and asset rows are
// then skipped.
func NewMaterializeService(factory *codegen.Factory, validator *validation.NotebookValidator, store ports.ArtifactStore, assets ports.AssetRepository, claims ports.ClaimRepository) *MaterializeService {
	return &MaterializeService{
		factory:   factory,
		validator: validator,
		store:     store,
		assets:    assets,
		claims:    claims,
	}
}

// BuildRequirements unions the base dependency set with both generators'
// declared requirements, deduplicates, sorts, and fingerprints. Returns the
// manifest text (trailing newline included) and the environment hash. The
// hash covers the sorted joined list without the trailing newline, so it is
// a pure function of the dependency set regardless of generation order.
func (s *MaterializeService) BuildRequirements(doc *plan.Document, paper *models.PaperRecord) (string, core.EnvHash, error) {
	datasetGen, err := s.factory.DatasetGenerator(doc, paper)
	if err != nil {
		return "", "", err
	}
	modelGen := s.factory.ModelGenerator(doc)

	seen := make(map[string]bool)
	var requirements []string
	for _, set := range [][]string{DefaultRequirements, datasetGen.Requirements(doc), modelGen.Requirements(doc)} {
		for _, req := range set {
			if !seen[req] {
				seen[req] = true
				requirements = append(requirements, req)
			}
		}
	}
	sort.Strings(requirements)

	manifest := strings.Join(requirements, "\n") + "\n"
	return manifest, core.ComputeEnvHash(requirements), nil
}

// BuildNotebook assembles the fixed 5-cell skeleton: markdown intro, setup
// (seeding + event logger), merged imports, dataset cell, model cell.
func (s *MaterializeService) BuildNotebook(ctx context.Context, doc *plan.Document, planID core.PlanID, paper *models.PaperRecord) ([]byte, error) {
	datasetGen, err := s.factory.DatasetGenerator(doc, paper)
	if err != nil {
		return nil, err
	}
	modelGen := s.factory.ModelGenerator(doc)

	imports := mergeImports(datasetGen.Imports(doc), modelGen.Imports(doc))

	datasetCode, err := datasetGen.Code(doc)
	if err != nil {
		return nil, errors.Wrap(err, "dataset code generation failed")
	}
	modelCode, err := modelGen.Code(doc)
	if err != nil {
		return nil, errors.Wrap(err, "model code generation failed")
	}

	importsCode := "# No additional imports needed"
	if len(imports) > 0 {
		importsCode = strings.Join(imports, "\n")
	}

	nb := notebook.New([]notebook.Cell{
		notebook.NewMarkdownCell(s.introCell(ctx, doc, planID, paper)),
		notebook.NewCodeCell(setupCell(doc, planID)),
		notebook.NewCodeCell(importsCode),
		notebook.NewCodeCell(datasetCode),
		notebook.NewCodeCell(modelCode),
	})
	return nb.Bytes()
}

// Materialize builds, validates, and persists the artifacts for a plan. An
// invalid notebook is never persisted: generation always completes and
// produces a result object, but validity is a separate, explicit judgment
// and this is where it gates the pipeline.
func (s *MaterializeService) Materialize(ctx context.Context, doc *plan.Document, planID core.PlanID, paper *models.PaperRecord) (*Artifacts, error) {
	notebookBytes, err := s.BuildNotebook(ctx, doc, planID, paper)
	if err != nil {
		return nil, err
	}
	manifest, envHash, err := s.BuildRequirements(doc, paper)
	if err != nil {
		return nil, err
	}

	result := s.validator.Validate(notebookBytes)
	if !result.Valid {
		log.Printf("[Materialize] Plan %s produced an invalid notebook (%d errors), refusing to persist", planID, len(result.Errors))
		return &Artifacts{EnvHash: envHash, Validation: result},
			errors.ValidationFailed(fmt.Sprintf("generated notebook failed validation: %s", strings.Join(result.Errors, "; ")))
	}

	artifacts := &Artifacts{EnvHash: envHash, Validation: result}

	// The two artifact writes are independent; fan out.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		path, err := s.store.PutNotebook(groupCtx, planID, notebookBytes)
		if err != nil {
			return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to store notebook"))
		}
		artifacts.NotebookPath = path
		return nil
	})
	group.Go(func() error {
		path, err := s.store.PutRequirements(groupCtx, planID, manifest)
		if err != nil {
			return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to store requirements"))
		}
		artifacts.RequirementsPath = path
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := s.recordAssets(ctx, planID, paper, artifacts, notebookBytes, manifest); err != nil {
		return nil, err
	}

	log.Printf("[Materialize] Plan %s materialized: env_hash=%s", planID, envHash)
	return artifacts, nil
}

func (s *MaterializeService) recordAssets(ctx context.Context, planID core.PlanID, paper *models.PaperRecord, artifacts *Artifacts, notebookBytes []byte, manifest string) error {
	if s.assets == nil {
		return nil
	}
	var paperID core.PaperID
	if paper != nil {
		paperID = paper.ID
	}
	rows := []*models.AssetRecord{
		{
			ID:          core.AssetID(core.NewID()),
			PaperID:     paperID,
			PlanID:      planID,
			Kind:        models.AssetKindNotebook,
			StoragePath: artifacts.NotebookPath,
			SizeBytes:   int64(len(notebookBytes)),
			Checksum:    core.NewHash(notebookBytes).String(),
		},
		{
			ID:          core.AssetID(core.NewID()),
			PaperID:     paperID,
			PlanID:      planID,
			Kind:        models.AssetKindRequirements,
			StoragePath: artifacts.RequirementsPath,
			SizeBytes:   int64(len(manifest)),
			Checksum:    core.NewHash([]byte(manifest)).String(),
		},
	}
	for _, row := range rows {
		if err := s.assets.Create(ctx, row); err != nil {
			return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to record asset"))
		}
	}
	return nil
}

// introCell renders the markdown header. When claims for the paper exist, a
// one-line summary of the claimed results is appended so the notebook states
// what it is reproducing.
func (s *MaterializeService) introCell(ctx context.Context, doc *plan.Document, planID core.PlanID, paper *models.PaperRecord) string {
	intro := fmt.Sprintf(`# Plan %s

This notebook was generated automatically from Plan JSON v1.1.
It follows the declared dataset, model, and configuration using a
deterministic CPU-only workflow.`, planID)

	if s.claims == nil || paper == nil {
		return intro
	}
	summary, err := SummarizeClaims(ctx, s.claims, paper.ID)
	if err != nil {
		log.Printf("[Materialize] Claim summary unavailable for paper %s: %v", paper.ID, err)
		return intro
	}
	if summary.Count == 0 {
		return intro
	}
	return intro + "\n\n" + summary.Markdown()
}

// mergeImports merges, deduplicates and sorts import statements from both
// generators so the imports cell is deterministic.
func mergeImports(sets ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, set := range sets {
		for _, imp := range set {
			if !seen[imp] {
				seen[imp] = true
				merged = append(merged, imp)
			}
		}
	}
	sort.Strings(merged)
	return merged
}

// setupCell defines the deterministic scaffolding every notebook shares: the
// seeding routine (every relevant random source; GPU presence is a hard
// failure rather than a silent nondeterminism source) and a file-based event
// logger that truncates any pre-existing log and metrics files. The seed
// value is taken verbatim from the plan's configuration.
func setupCell(doc *plan.Document, planID core.PlanID) string {
	return fmt.Sprintf(`import json
import os
import random
import sys
from pathlib import Path

import numpy as np

try:
    import torch
    TORCH_AVAILABLE = True
except ImportError:
    TORCH_AVAILABLE = False

EVENTS_PATH = Path("events.jsonl")
METRICS_PATH = Path("metrics.json")

if EVENTS_PATH.exists():
    EVENTS_PATH.unlink()
if METRICS_PATH.exists():
    METRICS_PATH.unlink()

def log_event(event_type: str, payload: dict) -> None:
    EVENTS_PATH.parent.mkdir(parents=True, exist_ok=True)
    with EVENTS_PATH.open("a", encoding="utf-8") as stream:
        stream.write(json.dumps({"event": event_type, **payload}) + "\n")

def seed_everything(seed: int) -> None:
    random.seed(seed)
    np.random.seed(seed)
    if TORCH_AVAILABLE:
        torch.manual_seed(seed)
        if torch.cuda.is_available():
            raise RuntimeError("E_GPU_REQUESTED: CUDA devices are not permitted during runs")
        torch.backends.cudnn.deterministic = True
        torch.backends.cudnn.benchmark = False

SEED = %d
seed_everything(SEED)
log_event("stage_update", {"stage": "seed_check", "seed": SEED})
print("Notebook generated for Plan %s")
print("Python version:", sys.version)
print("Seed set to", SEED)
if TORCH_AVAILABLE:
    print("Torch version:", torch.__version__)
else:
    print("Torch not installed (not required for this plan)")`,
		doc.Config.Seed, planID)
}
