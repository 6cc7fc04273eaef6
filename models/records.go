package models

import (
	"time"

	"replab/domain/core"
)

// PaperRecord is a paper row as stored in the database. The materialization
// core only reads the dataset upload fields; everything else belongs to the
// surrounding CRUD layer.
type PaperRecord struct {
	ID             core.PaperID `db:"id" json:"id"`
	Title          string       `db:"title" json:"title"`
	SourceURL      string       `db:"source_url" json:"source_url,omitempty"`
	DOI            string       `db:"doi" json:"doi,omitempty"`
	ArxivID        string       `db:"arxiv_id" json:"arxiv_id,omitempty"`
	PDFStoragePath string       `db:"pdf_storage_path" json:"pdf_storage_path"`
	PDFSHA256      string       `db:"pdf_sha256" json:"pdf_sha256"`
	Status         string       `db:"status" json:"status"`
	CreatedBy      string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`

	// Dataset upload fields. A non-empty DatasetStoragePath signals that the
	// user staged their own dataset with the paper, which unconditionally
	// overrides registry lookup during generator selection.
	DatasetStoragePath      string `db:"dataset_storage_path" json:"dataset_storage_path,omitempty"`
	DatasetFormat           string `db:"dataset_format" json:"dataset_format,omitempty"`
	DatasetOriginalFilename string `db:"dataset_original_filename" json:"dataset_original_filename,omitempty"`
}

// HasUploadedDataset reports whether the paper carries a staged dataset upload
func (p *PaperRecord) HasUploadedDataset() bool {
	return p != nil && p.DatasetStoragePath != ""
}

// PlanRecord is a plan row as stored in the database
type PlanRecord struct {
	ID            core.PlanID  `db:"id" json:"id"`
	PaperID       core.PaperID `db:"paper_id" json:"paper_id"`
	Version       string       `db:"version" json:"version"`
	PlanJSON      []byte       `db:"plan_json" json:"plan_json"`
	EnvHash       string       `db:"env_hash" json:"env_hash,omitempty"`
	BudgetMinutes int          `db:"budget_minutes" json:"budget_minutes,omitempty"`
	Status        string       `db:"status" json:"status,omitempty"`
	CreatedBy     string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// ClaimRecord is one extracted claim row. Extraction itself happens upstream;
// the materialization side only reads claims for summary lines.
type ClaimRecord struct {
	ID             core.ID      `db:"id" json:"id"`
	PaperID        core.PaperID `db:"paper_id" json:"paper_id"`
	DatasetName    string       `db:"dataset_name" json:"dataset_name,omitempty"`
	Split          string       `db:"split" json:"split,omitempty"`
	MetricName     string       `db:"metric_name" json:"metric_name"`
	MetricValue    float64      `db:"metric_value" json:"metric_value"`
	Units          string       `db:"units" json:"units,omitempty"`
	SourceCitation string       `db:"source_citation" json:"source_citation"`
	Confidence     float64      `db:"confidence" json:"confidence"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// RunRecord is a run row: one execution of a materialized plan
type RunRecord struct {
	ID           core.RunID   `db:"id" json:"id"`
	PlanID       core.PlanID  `db:"plan_id" json:"plan_id"`
	PaperID      core.PaperID `db:"paper_id" json:"paper_id"`
	Status       string       `db:"status" json:"status"`
	EnvHash      string       `db:"env_hash" json:"env_hash"`
	Seed         int          `db:"seed" json:"seed"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	StartedAt    *time.Time   `db:"started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
	DurationSec  int          `db:"duration_sec" json:"duration_sec,omitempty"`
	ErrorCode    string       `db:"error_code" json:"error_code,omitempty"`
	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
}

// Asset kinds persisted by the materialization flow
const (
	AssetKindNotebook     = "notebook"
	AssetKindRequirements = "requirements"
)

// AssetRecord is one stored artifact row (notebook, requirements manifest)
type AssetRecord struct {
	ID          core.AssetID `db:"id" json:"id"`
	PaperID     core.PaperID `db:"paper_id" json:"paper_id,omitempty"`
	PlanID      core.PlanID  `db:"plan_id" json:"plan_id,omitempty"`
	Kind        string       `db:"kind" json:"kind"`
	StoragePath string       `db:"storage_path" json:"storage_path"`
	SizeBytes   int64        `db:"size_bytes" json:"size_bytes,omitempty"`
	Checksum    string       `db:"checksum" json:"checksum,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
