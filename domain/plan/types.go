package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"replab/domain/core"
)

// Document is the Plan JSON v1.1 payload produced by the upstream planner.
// It is untrusted, possibly-incomplete text: the materialization core only
// ever reads it and never mutates it.
type Document struct {
	Dataset Dataset  `json:"dataset"`
	Model   Model    `json:"model"`
	Config  Config   `json:"config"`
	Metrics []Metric `json:"metrics"`
}

// Dataset names the data the plan wants to reproduce results on.
// Name is free text from the planner (noisy, needs normalization).
type Dataset struct {
	Name  string `json:"name"`
	Split string `json:"split,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Model names the model family the plan declares
type Model struct {
	Name   string `json:"name"`
	Family string `json:"family,omitempty"`
}

// Config holds execution configuration declared by the plan
type Config struct {
	Seed          int    `json:"seed"`
	Framework     string `json:"framework,omitempty"`
	BudgetMinutes int    `json:"budget_minutes,omitempty"`
}

// Metric is one target metric the plan wants reported
type Metric struct {
	Name string `json:"name"`
}

// PrimaryMetric returns the first declared metric name, or "metric" when the
// planner declared none.
func (d *Document) PrimaryMetric() string {
	if len(d.Metrics) > 0 && d.Metrics[0].Name != "" {
		return d.Metrics[0].Name
	}
	return "metric"
}

// Validate checks the structural minimum the core needs from a plan
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Dataset.Name) == "" {
		return core.NewPlanInvalidError("dataset.name", "must not be empty")
	}
	if strings.TrimSpace(d.Model.Name) == "" {
		return core.NewPlanInvalidError("model.name", "must not be empty")
	}
	return nil
}

// Parse decodes a plan document from raw planner output
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse plan document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
