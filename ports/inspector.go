package ports

// ColumnProfile summarizes one column of a staged tabular dataset
type ColumnProfile struct {
	Name        string  `json:"name"`
	Numeric     bool    `json:"numeric"`
	UniqueCount int     `json:"unique_count"`
	MissingRate float64 `json:"missing_rate"`
	Mean        float64 `json:"mean,omitempty"`
	StdDev      float64 `json:"std_dev,omitempty"`
}

// DatasetProfile is the generation-time view of a staged uploaded dataset
type DatasetProfile struct {
	Path         string          `json:"path"`
	RowCount     int             `json:"row_count"`
	ColumnCount  int             `json:"column_count"`
	Columns      []ColumnProfile `json:"columns"`
	TargetColumn string          `json:"target_column,omitempty"`
}

// DatasetInspector verifies and profiles a staged uploaded dataset before
// code generation. A missing file is the one structural error the factory
// treats as fatal: it means the paper record claims an upload that does not
// exist on disk.
type DatasetInspector interface {
	Inspect(path string) (*DatasetProfile, error)
}
