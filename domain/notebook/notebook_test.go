package notebook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotebook() *Notebook {
	return New([]Cell{
		NewMarkdownCell("# Plan test-plan"),
		NewCodeCell("SEED = 42\nprint(SEED)"),
		NewCodeCell("import os"),
	})
}

// TestBytesDeterminism tests that serialization is byte-identical across calls
func TestBytesDeterminism(t *testing.T) {
	nb := sampleNotebook()

	first, err := nb.Bytes()
	require.NoError(t, err)
	second, err := nb.Bytes()
	require.NoError(t, err)

	if !bytes.Equal(first, second) {
		t.Error("notebook serialization is not byte-identical across invocations")
	}
}

func TestBytesStructure(t *testing.T) {
	nb := sampleNotebook()
	raw, err := nb.Bytes()
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, `"nbformat": 4`)
	assert.Contains(t, content, `"nbformat_minor": 5`)
	assert.Contains(t, content, `"cell-0"`)
	assert.Contains(t, content, `"python3"`)
	// code cells must carry execution_count and outputs; markdown cells must not
	assert.Equal(t, 2, strings.Count(content, `"execution_count"`))
	assert.Equal(t, 2, strings.Count(content, `"outputs"`))
}

func TestEmptyNotebook(t *testing.T) {
	nb := New(nil)
	_, err := nb.Bytes()
	assert.Error(t, err)
}

// TestRoundTrip tests that Parse recovers cells from serialized bytes
func TestRoundTrip(t *testing.T) {
	nb := sampleNotebook()
	raw, err := nb.Bytes()
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Cells, 3)
	assert.Equal(t, CellMarkdown, parsed.Cells[0].Type)
	assert.Equal(t, "# Plan test-plan", parsed.Cells[0].Source)
	assert.Equal(t, "SEED = 42\nprint(SEED)", parsed.Cells[1].Source)
}

// TestParseLineListSource tests sources stored as line lists (other writers)
func TestParseLineListSource(t *testing.T) {
	raw := []byte(`{
  "cells": [
    {"cell_type": "code", "source": ["a = 1\n", "b = 2"]}
  ],
  "metadata": {"kernelspec": {"name": "python3", "display_name": "Python 3"}, "language_info": {"name": "python"}},
  "nbformat": 4,
  "nbformat_minor": 5
}`)
	parsed, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Cells, 1)
	assert.Equal(t, "a = 1\nb = 2", parsed.Cells[0].Source)
}

func TestCodeCells(t *testing.T) {
	nb := sampleNotebook()
	cells := nb.CodeCells()
	require.Len(t, cells, 2)
	assert.Equal(t, 1, cells[0].Index)
	assert.Equal(t, 2, cells[1].Index)
}
