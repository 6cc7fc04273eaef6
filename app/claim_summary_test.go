package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replab/domain/core"
	"replab/models"
)

type failingClaims struct{}

func (failingClaims) ListByPaper(ctx context.Context, paperID core.PaperID) ([]models.ClaimRecord, error) {
	return nil, errors.New("connection refused")
}

func TestSummarizeClaims(t *testing.T) {
	claims := &staticClaims{records: []models.ClaimRecord{
		{MetricName: "accuracy", MetricValue: 0.95, Confidence: 0.9},
		{MetricName: "accuracy", MetricValue: 0.93, Confidence: 0.8},
		{MetricName: "f1", MetricValue: 0.81, Confidence: 0.4},
	}}

	summary, err := SummarizeClaims(context.Background(), claims, core.PaperID(core.NewID()))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, []string{"accuracy", "f1"}, summary.Metrics)
	assert.InDelta(t, 0.7, summary.MeanConfidence, 1e-9)
	assert.InDelta(t, 0.8, summary.MedianConfidence, 1e-9)
	assert.InDelta(t, 0.81, summary.MinMetricValue, 1e-9)
	assert.InDelta(t, 0.95, summary.MaxMetricValue, 1e-9)
}

func TestSummarizeClaimsEmpty(t *testing.T) {
	summary, err := SummarizeClaims(context.Background(), &staticClaims{}, core.PaperID(core.NewID()))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, summary.Markdown())
}

func TestSummarizeClaimsRepositoryError(t *testing.T) {
	_, err := SummarizeClaims(context.Background(), failingClaims{}, core.PaperID(core.NewID()))
	assert.Error(t, err)
}

func TestClaimSummaryMarkdown(t *testing.T) {
	summary := &ClaimSummary{Count: 2, Metrics: []string{"accuracy"}, MeanConfidence: 0.85}
	assert.Equal(t,
		"The source paper makes 2 claim(s) covering 1 metric(s), extracted with mean confidence 0.85.",
		summary.Markdown())
}
