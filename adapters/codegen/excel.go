package codegen

import (
	"fmt"
	"strings"

	"replab/domain/plan"
	"replab/domain/registry"
	"replab/internal/config"
	"replab/models"
	"replab/ports"
)

// targetCandidates is the fixed, ordered list of common target column names.
// When none matches, the generated code falls back to the last column and
// logs a warning. The fallback is a heuristic with no check that the chosen
// column is label-like; it is preserved as-is because changing it would
// silently change notebook semantics for existing plans.
var targetCandidates = []string{"Win", "win", "target", "label", "class", "y", "Target", "Label"}

// TabularGenerator emits code that loads a tabular dataset with pandas. Two
// sub-paths share the same preprocessing policy: a user-uploaded file staged
// next to the notebook (read directly, no env-var indirection), or a
// registry-known local file. Rows with missing values are dropped and
// logged, the target column is detected from targetCandidates,
// high-cardinality string columns are treated as identifiers and dropped,
// and remaining string columns are integer label-encoded.
type TabularGenerator struct {
	metadata registry.Metadata
	paper    *models.PaperRecord
	profile  *ports.DatasetProfile
	cfg      config.MaterializeConfig
}

// NewTabularGenerator creates a generator for a registry-known tabular file
func NewTabularGenerator(metadata registry.Metadata, cfg config.MaterializeConfig) *TabularGenerator {
	return &TabularGenerator{metadata: metadata, cfg: cfg}
}

// NewUploadGenerator creates a generator bound to a paper's staged upload.
// The profile comes from generation-time inspection of the staged file; when
// it detected a target column, that column is tried before the common names.
func NewUploadGenerator(metadata registry.Metadata, paper *models.PaperRecord, profile *ports.DatasetProfile, cfg config.MaterializeConfig) *TabularGenerator {
	return &TabularGenerator{metadata: metadata, paper: paper, profile: profile, cfg: cfg}
}

func (g *TabularGenerator) Imports(doc *plan.Document) []string {
	return []string{
		"import pandas as pd",
		"import numpy as np",
		"from sklearn.preprocessing import LabelEncoder",
		"from sklearn.model_selection import train_test_split",
		"import os",
	}
}

func (g *TabularGenerator) Code(doc *plan.Document) (string, error) {
	if g.paper.HasUploadedDataset() {
		return g.uploadedCode(doc), nil
	}
	return g.registryCode(doc), nil
}

func (g *TabularGenerator) Requirements(doc *plan.Document) []string {
	return []string{
		"pandas==2.2.2",
		"xlrd>=2.0.1",
		"openpyxl>=3.1.0",
		"scikit-learn==1.5.1",
	}
}

// candidateList renders the python list of target column candidates,
// honoring a generation-time detection hint when one exists.
func (g *TabularGenerator) candidateList() string {
	candidates := targetCandidates
	if g.profile != nil && g.profile.TargetColumn != "" {
		merged := make([]string, 0, len(targetCandidates)+1)
		merged = append(merged, g.profile.TargetColumn)
		for _, c := range targetCandidates {
			if c != g.profile.TargetColumn {
				merged = append(merged, c)
			}
		}
		candidates = merged
	}
	quoted := make([]string, 0, len(candidates))
	for _, c := range candidates {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	return strings.Join(quoted, ", ")
}

// uploadedCode loads the dataset file the backend staged in the same
// directory as the notebook. The generated code re-checks existence at run
// time; a missing file there means the execution sandbox was set up wrong.
func (g *TabularGenerator) uploadedCode(doc *plan.Document) string {
	filename := g.paper.DatasetOriginalFilename
	if filename == "" {
		filename = "dataset.xls"
	}

	code := fmt.Sprintf(`# Dataset: %s (Uploaded with paper - loaded from local file)
log_event("stage_update", {"stage": "dataset_load", "dataset": "%s"})

# Dataset file is in the same directory as this notebook
dataset_path = "%s"
if not os.path.exists(dataset_path):
    raise FileNotFoundError(f"Dataset not found at {dataset_path}. Expected file: %s")

log_event("info", {"message": f"Loading dataset from local file: {dataset_path}"})

# Load Excel file
df = pd.read_excel(dataset_path)

log_event("metric_update", {"metric": "dataset_rows", "value": len(df)})

%s`, doc.Dataset.Name, doc.Dataset.Name, filename, filename, g.preprocessingCode())
	return strings.TrimSpace(code)
}

// registryCode loads a registry-known local tabular file (development path)
func (g *TabularGenerator) registryCode(doc *plan.Document) string {
	filePath := fmt.Sprintf("./%s.xls", doc.Dataset.Name)

	code := fmt.Sprintf(`# Dataset: %s (Excel format - local registry)
log_event("stage_update", {"stage": "dataset_load", "dataset": "%s"})

# Load Excel file (supports .xls and .xlsx)
df = pd.read_excel("%s")

log_event("metric_update", {"metric": "dataset_rows", "value": len(df)})

%s`, doc.Dataset.Name, doc.Dataset.Name, filePath, g.preprocessingCode())
	return strings.TrimSpace(code)
}

// preprocessingCode is the policy shared by both sub-paths: dropna with
// logging, target detection, identifier-column removal, label encoding,
// seeded subsample and split.
func (g *TabularGenerator) preprocessingCode() string {
	return fmt.Sprintf(`# Clean data: remove rows with missing values
df_clean = df.dropna()
if len(df_clean) < len(df):
    dropped = len(df) - len(df_clean)
    log_event("info", {"message": f"Dropped {dropped} rows with missing values ({dropped/len(df)*100:.1f}%%)"})
df = df_clean

# Detect target column (common names)
target_column = None
for col in [%s]:
    if col in df.columns:
        target_column = col
        break

if target_column is None:
    # Fall back to last column
    target_column = df.columns[-1]
    log_event("warning", {"message": f"No standard target column found. Using last column: {target_column}"})

# Separate features and target
y = df[target_column].values
X_df = df.drop(columns=[target_column])

# Drop high-cardinality string columns (identifiers, not signal)
for col in X_df.columns:
    if X_df[col].dtype == 'object':
        if X_df[col].nunique() > 50:
            X_df = X_df.drop(columns=[col])
            log_event("info", {"message": f"Dropped high-cardinality column: {col}"})

# Encode categorical features
label_encoders = {}
for col in X_df.columns:
    if X_df[col].dtype == 'object':
        le = LabelEncoder()
        X_df[col] = le.fit_transform(X_df[col].astype(str))
        label_encoders[col] = le

# Convert to numpy array
X = X_df.values

# Subsample for CPU budget (only if dataset is large)
MAX_SAMPLES = int(os.getenv("MAX_TRAIN_SAMPLES", "%d"))
if len(X) > MAX_SAMPLES:
    indices = np.random.RandomState(SEED).choice(len(X), MAX_SAMPLES, replace=False)
    X, y = X[indices], y[indices]
    log_event("info", {"message": f"Subsampled {len(X)} rows down to {MAX_SAMPLES}"})

# Split train/test
X_train, X_test, y_train, y_test = train_test_split(
    X, y, test_size=0.2, random_state=SEED
)

log_event("metric_update", {"metric": "dataset_samples", "value": len(X)})
log_event("metric_update", {"metric": "dataset_features", "value": X.shape[1]})`,
		g.candidateList(), g.cfg.MaxTrainSamples)
}
