package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/xuri/excelize/v2"

	"replab/domain/core"
	"replab/ports"
)

// targetCandidates mirrors the ordered list the tabular generator bakes into
// notebooks, so generation-time detection agrees with run-time detection.
var targetCandidates = []string{"Win", "win", "target", "label", "class", "y", "Target", "Label"}

// Sniffer inspects a staged uploaded dataset at generation time. It verifies
// the file exists (the one structural failure in the pipeline), reads the
// header and rows, and profiles each column so the factory can log row/column
// advisories and hint the target column to the generator.
type Sniffer struct{}

// NewSniffer creates a dataset sniffer
func NewSniffer() *Sniffer {
	return &Sniffer{}
}

// Inspect reads and profiles the staged file. Returns ErrUploadMissing when
// the file is not on disk.
func (s *Sniffer) Inspect(path string) (*ports.DatasetProfile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewUploadMissingError(path)
	}

	rows, err := s.readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("staged dataset must have a header row and at least one data row: %s", path)
	}

	header := rows[0]
	data := rows[1:]

	profile := &ports.DatasetProfile{
		Path:        path,
		RowCount:    len(data),
		ColumnCount: len(header),
	}

	for col, name := range header {
		profile.Columns = append(profile.Columns, profileColumn(name, col, data))
	}
	profile.TargetColumn = detectTarget(header)

	log.Printf("[Sniffer] Profiled %s: %d rows, %d columns, target=%q",
		filepath.Base(path), profile.RowCount, profile.ColumnCount, profile.TargetColumn)
	return profile, nil
}

func (s *Sniffer) readRows(path string) ([][]string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return s.readCSV(path)
	}
	return s.readExcel(path)
}

func (s *Sniffer) readExcel(path string) ([][]string, error) {
	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[Sniffer] Excel file read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (s *Sniffer) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// profileColumn computes a per-column summary. Numeric columns get mean and
// standard deviation via gonum; every column gets cardinality and missing
// rate, which is what the cardinality-drop policy in the generated code will
// act on.
func profileColumn(name string, col int, data [][]string) ports.ColumnProfile {
	unique := make(map[string]bool)
	var values []float64
	missing := 0
	numeric := true

	for _, row := range data {
		var cell string
		if col < len(row) {
			cell = strings.TrimSpace(row[col])
		}
		if cell == "" {
			missing++
			continue
		}
		unique[cell] = true
		if parsed, err := strconv.ParseFloat(cell, 64); err == nil {
			values = append(values, parsed)
		} else {
			numeric = false
		}
	}

	numeric = numeric && len(values) > 0
	profile := ports.ColumnProfile{
		Name:        name,
		Numeric:     numeric,
		UniqueCount: len(unique),
		MissingRate: float64(missing) / float64(len(data)),
	}
	if numeric {
		profile.Mean = stat.Mean(values, nil)
		profile.StdDev = stat.StdDev(values, nil)
	}
	return profile
}

func detectTarget(header []string) string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, candidate := range targetCandidates {
		if present[candidate] {
			return candidate
		}
	}
	return ""
}
