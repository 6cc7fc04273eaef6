package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replab/domain/core"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInspectCSV(t *testing.T) {
	path := writeCSV(t, "shootouts.csv", "Distance,Keeper,Win\n11.0,Smith,1\n11.5,Jones,0\n12.0,Smith,1\n")

	profile, err := NewSniffer().Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, 3, profile.RowCount)
	assert.Equal(t, 3, profile.ColumnCount)
	assert.Equal(t, "Win", profile.TargetColumn)
	require.Len(t, profile.Columns, 3)

	distance := profile.Columns[0]
	assert.Equal(t, "Distance", distance.Name)
	assert.True(t, distance.Numeric)
	assert.InDelta(t, 11.5, distance.Mean, 1e-9)
	assert.Equal(t, 3, distance.UniqueCount)
	assert.Zero(t, distance.MissingRate)

	keeper := profile.Columns[1]
	assert.False(t, keeper.Numeric)
	assert.Equal(t, 2, keeper.UniqueCount)
}

func TestInspectMissingValues(t *testing.T) {
	path := writeCSV(t, "gaps.csv", "a,label\n1,x\n,y\n3,x\n4,y\n")

	profile, err := NewSniffer().Inspect(path)
	require.NoError(t, err)

	a := profile.Columns[0]
	assert.InDelta(t, 0.25, a.MissingRate, 1e-9)
	assert.True(t, a.Numeric)
	assert.Equal(t, "label", profile.TargetColumn)
}

func TestInspectNoStandardTarget(t *testing.T) {
	path := writeCSV(t, "plain.csv", "a,b\n1,2\n3,4\n")

	profile, err := NewSniffer().Inspect(path)
	require.NoError(t, err)
	assert.Empty(t, profile.TargetColumn)
}

func TestInspectMissingFile(t *testing.T) {
	_, err := NewSniffer().Inspect(filepath.Join(t.TempDir(), "nope.xls"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUploadMissing)
}

func TestInspectHeaderOnly(t *testing.T) {
	path := writeCSV(t, "empty.csv", "a,b\n")

	_, err := NewSniffer().Inspect(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one data row")
}

func TestTargetDetectionOrder(t *testing.T) {
	// "Win" outranks "label" in the candidate order
	path := writeCSV(t, "both.csv", "label,Win\nx,1\ny,0\n")

	profile, err := NewSniffer().Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "Win", profile.TargetColumn)
}
