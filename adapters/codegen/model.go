package codegen

import (
	"fmt"
	"strings"

	"replab/domain/plan"
)

// LogisticGenerator emits the baseline model cell: a linear classifier
// trained on the split the dataset cell produced, evaluated on the held-out
// test set, with metrics written to metrics.json. It is the single shipped
// model variant; the factory's model selection is the seam where a
// model-family dispatch mirroring the dataset dispatch would plug in.
type LogisticGenerator struct{}

// NewLogisticGenerator creates the baseline model generator
func NewLogisticGenerator() *LogisticGenerator {
	return &LogisticGenerator{}
}

func (g *LogisticGenerator) Imports(doc *plan.Document) []string {
	return []string{
		"from sklearn.linear_model import LogisticRegression",
		"from sklearn.metrics import accuracy_score",
	}
}

func (g *LogisticGenerator) Code(doc *plan.Document) (string, error) {
	code := fmt.Sprintf(`log_event("stage_update", {"stage": "model_train", "model": "%s"})

model = LogisticRegression(max_iter=200, random_state=SEED)
model.fit(X_train, y_train)

log_event("stage_update", {"stage": "model_eval"})
predictions = model.predict(X_test)
accuracy = accuracy_score(y_test, predictions)

log_event("metric_update", {"metric": "accuracy", "value": float(accuracy)})

metrics = {
    "accuracy": float(accuracy),
    "primary_metric": "%s",
    "seed": SEED,
}
METRICS_PATH.write_text(json.dumps(metrics, indent=2))
print(f"Accuracy: {accuracy:.4f}")`, doc.Model.Name, doc.PrimaryMetric())
	return strings.TrimSpace(code), nil
}

func (g *LogisticGenerator) Requirements(doc *plan.Document) []string {
	return []string{"scikit-learn==1.5.1"}
}
