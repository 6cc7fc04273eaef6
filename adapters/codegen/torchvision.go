package codegen

import (
	"fmt"
	"strings"

	"replab/domain/plan"
	"replab/domain/registry"
	"replab/internal/config"
)

// VisionGenerator emits code that loads a torchvision dataset with local
// caching. The generated cell consults OFFLINE_MODE before touching the
// network: when offline it never downloads and fails if no cache exists;
// when online it checks the cache directory first and downloads only what is
// missing. Images are flattened to 1D so the sklearn baseline model can
// consume them, and large datasets are subsampled under a seeded RNG.
type VisionGenerator struct {
	metadata registry.Metadata
	cfg      config.MaterializeConfig
}

// NewVisionGenerator creates a generator for a registry-known torchvision dataset
func NewVisionGenerator(metadata registry.Metadata, cfg config.MaterializeConfig) *VisionGenerator {
	return &VisionGenerator{metadata: metadata, cfg: cfg}
}

func (g *VisionGenerator) Imports(doc *plan.Document) []string {
	return []string{
		"from torchvision import datasets, transforms",
		"import numpy as np",
		"import os",
	}
}

func (g *VisionGenerator) Code(doc *plan.Document) (string, error) {
	offlineDefault := "false"
	if g.cfg.OfflineMode {
		offlineDefault = "true"
	}

	code := fmt.Sprintf(`# Dataset: %s (Torchvision - cached download)
CACHE_DIR = os.getenv("DATASET_CACHE_DIR", "%s")
OFFLINE_MODE = os.getenv("OFFLINE_MODE", "%s").lower() == "true"

log_event("stage_update", {"stage": "dataset_load", "dataset": "%s"})

# Basic transforms (normalize to [0, 1])
transform = transforms.Compose([
    transforms.ToTensor(),
])

# download=True checks the cache first and only fetches what is missing
train_dataset = datasets.%s(
    root=CACHE_DIR,
    train=True,
    download=not OFFLINE_MODE,
    transform=transform
)

test_dataset = datasets.%s(
    root=CACHE_DIR,
    train=False,
    download=not OFFLINE_MODE,
    transform=transform
)

# Convert to numpy and flatten for sklearn compatibility
X_train = train_dataset.data.numpy().reshape(len(train_dataset), -1)
y_train = np.array(train_dataset.targets)

X_test = test_dataset.data.numpy().reshape(len(test_dataset), -1)
y_test = np.array(test_dataset.targets)

# Subsample for CPU budget
MAX_SAMPLES = int(os.getenv("MAX_TRAIN_SAMPLES", "%d"))
if len(X_train) > MAX_SAMPLES:
    indices = np.random.RandomState(SEED).choice(len(X_train), MAX_SAMPLES, replace=False)
    X_train, y_train = X_train[indices], y_train[indices]

log_event("metric_update", {"metric": "dataset_samples", "value": len(X_train)})`,
		doc.Dataset.Name, g.cfg.DatasetCacheDir, offlineDefault, doc.Dataset.Name,
		g.metadata.LoadFunction, g.metadata.LoadFunction, g.cfg.MaxTrainSamples)
	return strings.TrimSpace(code), nil
}

func (g *VisionGenerator) Requirements(doc *plan.Document) []string {
	return []string{
		"torch==2.1.0",
		"torchvision==0.16.0",
	}
}
