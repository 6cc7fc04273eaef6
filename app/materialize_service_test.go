package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replab/adapters/codegen"
	"replab/adapters/excel"
	"replab/domain/core"
	"replab/domain/notebook"
	"replab/domain/plan"
	"replab/domain/registry"
	"replab/internal/config"
	"replab/internal/validation"
	"replab/models"
	"replab/ports"
)

// memoryStore keeps artifacts in a map; safe for the concurrent writes the
// service fans out.
type memoryStore struct {
	mu        sync.Mutex
	notebooks map[core.PlanID][]byte
	manifests map[core.PlanID]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		notebooks: make(map[core.PlanID][]byte),
		manifests: make(map[core.PlanID]string),
	}
}

func (m *memoryStore) PutNotebook(ctx context.Context, planID core.PlanID, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notebooks[planID] = data
	return fmt.Sprintf("plans/%s/notebook.ipynb", planID), nil
}

func (m *memoryStore) PutRequirements(ctx context.Context, planID core.PlanID, manifest string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifests[planID] = manifest
	return fmt.Sprintf("plans/%s/requirements.txt", planID), nil
}

func (m *memoryStore) GetNotebook(ctx context.Context, planID core.PlanID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.notebooks[planID]
	if !ok {
		return nil, core.NewNotFoundError("notebook", string(planID))
	}
	return data, nil
}

type memoryAssets struct {
	mu   sync.Mutex
	rows []*models.AssetRecord
}

func (m *memoryAssets) Create(ctx context.Context, asset *models.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, asset)
	return nil
}

func (m *memoryAssets) ListByPlan(ctx context.Context, planID core.PlanID) ([]models.AssetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AssetRecord
	for _, row := range m.rows {
		if row.PlanID == planID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type staticClaims struct {
	records []models.ClaimRecord
}

func (c *staticClaims) ListByPaper(ctx context.Context, paperID core.PaperID) ([]models.ClaimRecord, error) {
	return c.records, nil
}

func newTestService(store ports.ArtifactStore, assets ports.AssetRepository, claims ports.ClaimRepository) *MaterializeService {
	factory := codegen.NewFactory(registry.Default(), excel.NewSniffer(), config.MaterializeConfig{
		DatasetCacheDir: "./data",
		MaxTrainSamples: 5000,
		MaxBOWFeatures:  1000,
		UploadStageDir:  "./uploads",
	})
	return NewMaterializeService(factory, validation.NewNotebookValidator(), store, assets, claims)
}

func buildPlan(dataset string, seed int) *plan.Document {
	return &plan.Document{
		Dataset: plan.Dataset{Name: dataset, Split: "train"},
		Model:   plan.Model{Name: "logistic", Family: "linear"},
		Config:  plan.Config{Seed: seed, Framework: "sklearn"},
		Metrics: []plan.Metric{{Name: "accuracy"}},
	}
}

var hexHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestMaterializeKnownDataset(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, nil, nil)
	planID := core.PlanID(core.NewID())

	artifacts, err := service.Materialize(context.Background(), buildPlan("iris", 42), planID, nil)
	require.NoError(t, err)

	assert.True(t, artifacts.Validation.Valid)
	assert.Regexp(t, hexHash, string(artifacts.EnvHash))
	assert.Equal(t, fmt.Sprintf("plans/%s/notebook.ipynb", planID), artifacts.NotebookPath)
	assert.Equal(t, fmt.Sprintf("plans/%s/requirements.txt", planID), artifacts.RequirementsPath)

	nb, err := notebook.Parse(store.notebooks[planID])
	require.NoError(t, err)
	require.Len(t, nb.Cells, 5)
	assert.Equal(t, notebook.CellMarkdown, nb.Cells[0].Type)
	assert.Contains(t, nb.Cells[1].Source, "SEED = 42")
	assert.Contains(t, nb.Cells[1].Source, "seed_everything(SEED)")
	assert.Contains(t, nb.Cells[3].Source, "load_iris(return_X_y=True)")
	assert.Contains(t, nb.Cells[4].Source, "LogisticRegression")

	manifest := store.manifests[planID]
	assert.Contains(t, manifest, "scikit-learn==1.5.1")
	assert.True(t, strings.HasSuffix(manifest, "\n"))
}

func TestMaterializeUnknownDatasetFallsBack(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, nil, nil)
	planID := core.PlanID(core.NewID())

	artifacts, err := service.Materialize(context.Background(), buildPlan("not_a_real_dataset", 7), planID, nil)
	require.NoError(t, err)
	assert.True(t, artifacts.Validation.Valid)

	nb, err := notebook.Parse(store.notebooks[planID])
	require.NoError(t, err)
	assert.Contains(t, nb.Cells[1].Source, "SEED = 7")
	assert.Contains(t, nb.Cells[3].Source, "make_classification")
	assert.Contains(t, nb.Cells[3].Source, "n_samples=512")
}

func TestBuildRequirementsDeterminism(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, nil)
	doc := buildPlan("mnist", 42)

	first, firstHash, err := service.BuildRequirements(doc, nil)
	require.NoError(t, err)
	second, secondHash, err := service.BuildRequirements(doc, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstHash, secondHash)
}

func TestBuildRequirementsSortedAndDeduplicated(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, nil)

	manifest, _, err := service.BuildRequirements(buildPlan("iris", 42), nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(manifest, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		assert.Less(t, lines[i-1], lines[i], "manifest must be strictly sorted with no duplicates")
	}
	// the generator's scikit-learn pin duplicates the base set's; it must
	// appear once
	count := strings.Count(manifest, "scikit-learn==1.5.1\n")
	assert.Equal(t, 1, count)
}

// TestEnvHashMatchesManifest tests that the service's hash is exactly the
// canonical fingerprint of the manifest's dependency set
func TestEnvHashMatchesManifest(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, nil)

	manifest, envHash, err := service.BuildRequirements(buildPlan("iris", 42), nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(manifest, "\n"), "\n")
	assert.Equal(t, core.ComputeEnvHash(lines), envHash)
}

func TestEnvHashVariesWithDependencySet(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, nil)

	_, sklearnHash, err := service.BuildRequirements(buildPlan("iris", 42), nil)
	require.NoError(t, err)
	_, torchHash, err := service.BuildRequirements(buildPlan("mnist", 42), nil)
	require.NoError(t, err)

	assert.NotEqual(t, sklearnHash, torchHash)
}

func TestBuildNotebookByteIdentical(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, nil)
	planID := core.PlanID("0192aaaa-0000-7000-8000-000000000001")
	doc := buildPlan("SST-2", 42)

	first, err := service.BuildNotebook(context.Background(), doc, planID, nil)
	require.NoError(t, err)
	second, err := service.BuildNotebook(context.Background(), doc, planID, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestImportsCellMergedAndSorted(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, nil)

	raw, err := service.BuildNotebook(context.Background(), buildPlan("iris", 42), core.PlanID(core.NewID()), nil)
	require.NoError(t, err)
	nb, err := notebook.Parse(raw)
	require.NoError(t, err)

	lines := strings.Split(nb.Cells[2].Source, "\n")
	for i := 1; i < len(lines); i++ {
		assert.Less(t, lines[i-1], lines[i], "imports must be sorted and deduplicated")
	}
	// imports from both generators land in the one cell
	assert.Contains(t, nb.Cells[2].Source, "from sklearn.datasets import load_iris")
	assert.Contains(t, nb.Cells[2].Source, "from sklearn.linear_model import LogisticRegression")
}

func TestMaterializeRecordsAssets(t *testing.T) {
	store := newMemoryStore()
	assets := &memoryAssets{}
	service := newTestService(store, assets, nil)
	planID := core.PlanID(core.NewID())
	paper := &models.PaperRecord{ID: core.PaperID(core.NewID())}

	_, err := service.Materialize(context.Background(), buildPlan("iris", 42), planID, paper)
	require.NoError(t, err)

	rows, err := assets.ListByPlan(context.Background(), planID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	kinds := map[string]models.AssetRecord{}
	for _, row := range rows {
		kinds[row.Kind] = row
	}
	nbRow, ok := kinds[models.AssetKindNotebook]
	require.True(t, ok)
	assert.Equal(t, int64(len(store.notebooks[planID])), nbRow.SizeBytes)
	assert.Equal(t, core.NewHash(store.notebooks[planID]).String(), nbRow.Checksum)
	assert.Equal(t, paper.ID, nbRow.PaperID)

	reqRow, ok := kinds[models.AssetKindRequirements]
	require.True(t, ok)
	assert.Equal(t, int64(len(store.manifests[planID])), reqRow.SizeBytes)
}

func TestIntroCellCarriesClaimSummary(t *testing.T) {
	store := newMemoryStore()
	claims := &staticClaims{records: []models.ClaimRecord{
		{MetricName: "accuracy", Confidence: 0.9},
		{MetricName: "f1", Confidence: 0.7},
	}}
	service := newTestService(store, nil, claims)
	paper := &models.PaperRecord{ID: core.PaperID(core.NewID())}

	raw, err := service.BuildNotebook(context.Background(), buildPlan("iris", 42), core.PlanID(core.NewID()), paper)
	require.NoError(t, err)
	nb, err := notebook.Parse(raw)
	require.NoError(t, err)

	assert.Contains(t, nb.Cells[0].Source, "makes 2 claim(s)")
	assert.Contains(t, nb.Cells[0].Source, "2 metric(s)")
	assert.Contains(t, nb.Cells[0].Source, "0.80")
}

func TestIntroCellNoClaimsNoSummary(t *testing.T) {
	service := newTestService(newMemoryStore(), nil, &staticClaims{})
	paper := &models.PaperRecord{ID: core.PaperID(core.NewID())}

	raw, err := service.BuildNotebook(context.Background(), buildPlan("iris", 42), core.PlanID(core.NewID()), paper)
	require.NoError(t, err)
	nb, err := notebook.Parse(raw)
	require.NoError(t, err)

	assert.NotContains(t, nb.Cells[0].Source, "claim(s)")
}
