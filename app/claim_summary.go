package app

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"replab/domain/core"
	"replab/ports"
)

// ClaimSummary aggregates the extracted claims for one paper. Extraction
// itself happens upstream; this only summarizes what is already in the
// database, for the notebook intro line and the plan page.
type ClaimSummary struct {
	Count            int      `json:"count"`
	Metrics          []string `json:"metrics"`
	MeanConfidence   float64  `json:"mean_confidence"`
	MedianConfidence float64  `json:"median_confidence"`
	MinMetricValue   float64  `json:"min_metric_value"`
	MaxMetricValue   float64  `json:"max_metric_value"`
}

// SummarizeClaims computes claim statistics for a paper
func SummarizeClaims(ctx context.Context, claims ports.ClaimRepository, paperID core.PaperID) (*ClaimSummary, error) {
	records, err := claims.ListByPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &ClaimSummary{}, nil
	}

	confidences := make([]float64, 0, len(records))
	values := make([]float64, 0, len(records))
	seen := make(map[string]bool)
	var metrics []string
	for _, record := range records {
		confidences = append(confidences, record.Confidence)
		values = append(values, record.MetricValue)
		if !seen[record.MetricName] {
			seen[record.MetricName] = true
			metrics = append(metrics, record.MetricName)
		}
	}

	mean, err := stats.Mean(confidences)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean confidence: %w", err)
	}
	median, err := stats.Median(confidences)
	if err != nil {
		return nil, fmt.Errorf("failed to compute median confidence: %w", err)
	}
	minValue, err := stats.Min(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute min metric value: %w", err)
	}
	maxValue, err := stats.Max(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max metric value: %w", err)
	}

	return &ClaimSummary{
		Count:            len(records),
		Metrics:          metrics,
		MeanConfidence:   mean,
		MedianConfidence: median,
		MinMetricValue:   minValue,
		MaxMetricValue:   maxValue,
	}, nil
}

// Markdown renders the one-line summary used in the notebook intro cell
func (s *ClaimSummary) Markdown() string {
	if s.Count == 0 {
		return ""
	}
	return fmt.Sprintf("The source paper makes %d claim(s) covering %d metric(s), extracted with mean confidence %.2f.",
		s.Count, len(s.Metrics), s.MeanConfidence)
}
