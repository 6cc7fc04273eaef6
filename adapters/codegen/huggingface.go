package codegen

import (
	"fmt"
	"strings"

	"replab/domain/plan"
	"replab/domain/registry"
	"replab/internal/config"
)

// CorpusGenerator emits code that loads a HuggingFace text corpus with local
// caching. The generated cell consults OFFLINE_MODE before touching the
// network: when offline it sets HF_DATASETS_OFFLINE so the loader serves
// from cache or fails rather than downloading. It detects the text and
// label fields from fixed candidate lists, and
// vectorizes with a bounded-vocabulary bag-of-words transform. The vectorizer
// is deterministic by construction and must never receive a random seed
// parameter; the notebook validator enforces that rule on the emitted code.
type CorpusGenerator struct {
	metadata registry.Metadata
	cfg      config.MaterializeConfig
}

// NewCorpusGenerator creates a generator for a registry-known text corpus
func NewCorpusGenerator(metadata registry.Metadata, cfg config.MaterializeConfig) *CorpusGenerator {
	return &CorpusGenerator{metadata: metadata, cfg: cfg}
}

func (g *CorpusGenerator) Imports(doc *plan.Document) []string {
	return []string{
		"from datasets import load_dataset",
		"from sklearn.feature_extraction.text import CountVectorizer",
		"from sklearn.model_selection import train_test_split",
		"import numpy as np",
		"import os",
	}
}

func (g *CorpusGenerator) Code(doc *plan.Document) (string, error) {
	hfArgs := make([]string, 0, len(g.metadata.HFPath))
	for _, part := range g.metadata.HFPath {
		hfArgs = append(hfArgs, fmt.Sprintf("%q", part))
	}

	split := doc.Dataset.Split
	if split == "" {
		split = "train"
	}

	offlineDefault := "false"
	if g.cfg.OfflineMode {
		offlineDefault = "true"
	}

	code := fmt.Sprintf(`# Dataset: %s (HuggingFace - cached download)
CACHE_DIR = os.getenv("DATASET_CACHE_DIR", "%s")
OFFLINE_MODE = os.getenv("OFFLINE_MODE", "%s").lower() == "true"

log_event("stage_update", {"stage": "dataset_load", "dataset": "%s"})

# Offline runs must never touch the network: serve from cache or fail
if OFFLINE_MODE:
    os.environ["HF_DATASETS_OFFLINE"] = "1"

# Load with caching (downloads only if not cached and not offline)
dataset = load_dataset(
    %s,
    cache_dir=CACHE_DIR,
    download_mode="reuse_dataset_if_exists",
)

# Extract split
split_name = "%s" if "%s" in dataset else "train"
train_data = dataset[split_name]

# Detect text field (common field names)
text_field = None
for field in ["sentence", "text", "content", "review"]:
    if field in train_data.features:
        text_field = field
        break

if text_field is None:
    raise ValueError(f"Could not find text field in dataset. Available fields: {list(train_data.features.keys())}")

# Extract texts and labels
texts = [row[text_field] for row in train_data]

# Detect label field
label_field = "label" if "label" in train_data.features else list(train_data.features.keys())[1]
labels = [row[label_field] for row in train_data]

# Vectorize text (bounded-vocabulary bag-of-words)
MAX_FEATURES = int(os.getenv("MAX_BOW_FEATURES", "%d"))
vectorizer = CountVectorizer(max_features=MAX_FEATURES)
X = vectorizer.fit_transform(texts).toarray()
y = np.array(labels)

# Subsample for CPU budget
MAX_SAMPLES = int(os.getenv("MAX_TRAIN_SAMPLES", "%d"))
if len(X) > MAX_SAMPLES:
    indices = np.random.RandomState(SEED).choice(len(X), MAX_SAMPLES, replace=False)
    X, y = X[indices], y[indices]

# Split train/test
X_train, X_test, y_train, y_test = train_test_split(
    X, y, test_size=0.2, random_state=SEED
)

log_event("metric_update", {"metric": "dataset_samples", "value": len(X)})`,
		doc.Dataset.Name, g.cfg.DatasetCacheDir, offlineDefault, doc.Dataset.Name,
		strings.Join(hfArgs, ", "), split, split, g.cfg.MaxBOWFeatures, g.cfg.MaxTrainSamples)
	return strings.TrimSpace(code), nil
}

func (g *CorpusGenerator) Requirements(doc *plan.Document) []string {
	return []string{
		"datasets>=2.14.0",
		"scikit-learn==1.5.1",
	}
}
