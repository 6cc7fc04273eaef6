package codegen

import (
	"fmt"
	"strings"

	"replab/domain/plan"
	"replab/domain/registry"
)

// BundledGenerator emits code that loads a dataset bundled with sklearn
// (digits, iris, wine, breast_cancer). The data is already on disk once
// sklearn is installed: no network access, no caching concerns, the fastest
// path the registry can select.
type BundledGenerator struct {
	metadata registry.Metadata
}

// NewBundledGenerator creates a generator for a registry-known bundled dataset
func NewBundledGenerator(metadata registry.Metadata) *BundledGenerator {
	return &BundledGenerator{metadata: metadata}
}

func (g *BundledGenerator) Imports(doc *plan.Document) []string {
	return []string{
		fmt.Sprintf("from sklearn.datasets import %s", g.metadata.LoadFunction),
		"from sklearn.model_selection import train_test_split",
	}
}

func (g *BundledGenerator) Code(doc *plan.Document) (string, error) {
	code := fmt.Sprintf(`# Dataset: %s (sklearn built-in - no download)
log_event("stage_update", {"stage": "dataset_load", "dataset": "%s"})

# Load dataset (bundled with sklearn)
X, y = %s(return_X_y=True)

# Split train/test with deterministic seed
X_train, X_test, y_train, y_test = train_test_split(
    X, y, test_size=0.2, random_state=SEED
)

log_event("metric_update", {"metric": "dataset_samples", "value": int(X.shape[0])})`,
		doc.Dataset.Name, doc.Dataset.Name, g.metadata.LoadFunction)
	return strings.TrimSpace(code), nil
}

func (g *BundledGenerator) Requirements(doc *plan.Document) []string {
	return []string{"scikit-learn==1.5.1"}
}
