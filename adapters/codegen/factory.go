package codegen

import (
	"log"
	"path/filepath"

	"replab/domain/plan"
	"replab/domain/registry"
	"replab/internal/config"
	"replab/internal/errors"
	"replab/models"
	"replab/ports"
)

// sizeAdvisoryMB is the advisory threshold above which the factory recommends
// a sample cap. The advisory is a log line only and never blocks generation.
const sizeAdvisoryMB = 200

// Factory selects code generators for a plan. Selection is deterministic and
// explainable: every branch logs why it was taken. The registry is injected,
// immutable, and shared read-only across requests.
type Factory struct {
	registry  *registry.Registry
	inspector ports.DatasetInspector
	cfg       config.MaterializeConfig
}

// NewFactory creates a generator factory
func NewFactory(reg *registry.Registry, inspector ports.DatasetInspector, cfg config.MaterializeConfig) *Factory {
	return &Factory{registry: reg, inspector: inspector, cfg: cfg}
}

// DatasetGenerator selects the dataset generator for a plan.
//
// Selection order:
//  1. Paper has a staged uploaded dataset: upload generator bound to that
//     file. User intent wins; this overrides any registry match.
//  2. Registry lookup on the normalized dataset name.
//  3. Found: the variant matching the declared source.
//  4. Miss, or unrecognized source: synthetic fallback (network-free).
//
// The only error path is structural: a paper claiming an upload whose staged
// file does not exist on disk.
func (f *Factory) DatasetGenerator(doc *plan.Document, paper *models.PaperRecord) (ports.CodeGenerator, error) {
	datasetName := doc.Dataset.Name

	if paper.HasUploadedDataset() {
		stagedPath := filepath.Join(f.cfg.UploadStageDir, paper.DatasetOriginalFilename)
		profile, err := f.inspector.Inspect(stagedPath)
		if err != nil {
			// The paper record claims an upload that is not on disk. That is
			// inconsistent upstream state, not a data-content problem, so it
			// fails generation outright.
			return nil, errors.WithCode(errors.CodeUploadMissing,
				errors.Wrapf(err, "staged dataset for paper %s unavailable", paper.ID))
		}
		log.Printf("[GeneratorFactory] Using uploaded dataset for paper '%s': %s (%s format, %d rows x %d cols)",
			paper.ID, paper.DatasetOriginalFilename, paper.DatasetFormat, profile.RowCount, profile.ColumnCount)

		uploadedMeta := registry.Metadata{
			Source:        registry.SourceExcel,
			LoadFunction:  "read_excel",
			TypicalSizeMB: 1,
			License:       "user-provided",
		}
		return NewUploadGenerator(uploadedMeta, paper, profile, f.cfg), nil
	}

	metadata, found := f.registry.Lookup(datasetName)
	if !found {
		log.Printf("[GeneratorFactory] Dataset '%s' not in registry, using synthetic fallback", datasetName)
		return NewSyntheticGenerator(), nil
	}

	if metadata.TypicalSizeMB > sizeAdvisoryMB {
		log.Printf("[GeneratorFactory] Dataset '%s' will download ~%dMB on first run. Consider setting MAX_TRAIN_SAMPLES to reduce size.",
			datasetName, metadata.TypicalSizeMB)
	}

	switch metadata.Source {
	case registry.SourceSklearn:
		log.Printf("[GeneratorFactory] Dataset '%s' found in registry: sklearn (bundled, no download)", datasetName)
		return NewBundledGenerator(metadata), nil

	case registry.SourceTorchvision:
		log.Printf("[GeneratorFactory] Dataset '%s' found in registry: torchvision (~%dMB download on first use)",
			datasetName, metadata.TypicalSizeMB)
		return NewVisionGenerator(metadata, f.cfg), nil

	case registry.SourceHuggingFace:
		log.Printf("[GeneratorFactory] Dataset '%s' found in registry: HuggingFace (~%dMB download on first use)",
			datasetName, metadata.TypicalSizeMB)
		return NewCorpusGenerator(metadata, f.cfg), nil

	case registry.SourceExcel:
		log.Printf("[GeneratorFactory] Dataset '%s' found in registry: Excel (local .xls/.xlsx file)", datasetName)
		return NewTabularGenerator(metadata, f.cfg), nil

	default:
		log.Printf("[GeneratorFactory] Dataset '%s' has unknown source '%s', using synthetic fallback",
			datasetName, metadata.Source)
		return NewSyntheticGenerator(), nil
	}
}

// ModelGenerator selects the model generator for a plan. A single baseline
// variant ships today; dispatch on doc.Model.Family belongs here when more
// variants exist.
func (f *Factory) ModelGenerator(doc *plan.Document) ports.CodeGenerator {
	return NewLogisticGenerator()
}
