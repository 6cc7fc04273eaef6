package codegen

import (
	"fmt"
	"strings"

	"replab/domain/plan"
)

// SyntheticGenerator emits code that constructs a synthetic classification
// dataset with make_classification. It is the safe, network-free fallback
// used whenever the planner names a dataset the registry does not know.
type SyntheticGenerator struct{}

// NewSyntheticGenerator creates the fallback dataset generator
func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{}
}

func (g *SyntheticGenerator) Imports(doc *plan.Document) []string {
	return []string{
		"from sklearn.datasets import make_classification",
		"from sklearn.model_selection import train_test_split",
	}
}

func (g *SyntheticGenerator) Code(doc *plan.Document) (string, error) {
	code := fmt.Sprintf(`log_event(
    "stage_update",
    {
        "stage": "dataset_load",
        "dataset": "%s",
        "split": "%s",
    },
)

X, y = make_classification(
    n_samples=512,
    n_features=32,
    n_informative=16,
    n_redundant=4,
    random_state=SEED,
)
X_train, X_test, y_train, y_test = train_test_split(
    X, y, test_size=0.2, stratify=y, random_state=SEED
)
log_event(
    "metric_update",
    {"metric": "dataset_samples", "value": int(X.shape[0])},
)`, doc.Dataset.Name, doc.Dataset.Split)
	return strings.TrimSpace(code), nil
}

func (g *SyntheticGenerator) Requirements(doc *plan.Document) []string {
	return []string{"scikit-learn==1.5.1"}
}
